package network

import (
	"encoding/json"
	"errors"

	"scanvator/src/elev"
	"scanvator/src/types"
)

type MsgType int

const (
	HallPressMsg MsgType = iota
	CarPressMsg
	WithdrawMsg
	StatusQueryMsg
	ReplyMsg
)

func (t MsgType) String() string {
	switch t {
	case HallPressMsg:
		return "hall-press"
	case CarPressMsg:
		return "car-press"
	case WithdrawMsg:
		return "withdraw"
	case StatusQueryMsg:
		return "status-query"
	case ReplyMsg:
		return "reply"
	}
	return "unknown"
}

// Message is one frame on a panel session. Replies carry the Seq of the
// press they answer.
type Message[Content MsgContent] struct {
	Type    MsgType
	Seq     uint32
	Content Content
}

type MsgContent interface {
	HallPress | CarPress | StatusQuery | Reply
}

type HallPress struct {
	Floor int
	Dir   types.Direction
}

// CarPress is a destination button inside a car. WithdrawMsg frames carry it
// too, to cancel a queued stop.
type CarPress struct {
	Floor int
	CarID int
}

type StatusQuery struct{}

type Reply struct {
	Outcome types.Outcome
	CarID   int
	Cars    []elev.CarState `json:",omitempty"`
	Code    string          `json:",omitempty"`
	Error   string          `json:",omitempty"`
}

// frame is a Message whose content has not been decoded yet.
type frame struct {
	Type    MsgType
	Seq     uint32
	Content json.RawMessage
}

// remoteErrors are the sentinels a server can report back to a panel.
var remoteErrors = []error{
	types.ErrInvalidFloor,
	types.ErrInvalidDir,
	types.ErrUnroutable,
	types.ErrUnknownCar,
	types.ErrNotQueued,
}

// RemoteError is an error reported by the server. It unwraps to the matching
// sentinel from types when there is one.
type RemoteError struct {
	Msg string
	err error
}

func (e *RemoteError) Error() string {
	return e.Msg
}

func (e *RemoteError) Unwrap() error {
	return e.err
}

func errorReply(reply Reply, err error) Reply {
	reply.Error = err.Error()
	for _, sentinel := range remoteErrors {
		if errors.Is(err, sentinel) {
			reply.Code = sentinel.Error()
			break
		}
	}
	return reply
}

func (r Reply) err() error {
	if r.Error == "" {
		return nil
	}
	remote := &RemoteError{Msg: r.Error}
	for _, sentinel := range remoteErrors {
		if sentinel.Error() == r.Code {
			remote.err = sentinel
			break
		}
	}
	return remote
}
