// Package network carries button presses from remote panels to the routers
// over KCP sessions. Each frame is a JSON encoded Message.
package network

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"slices"
	"sync"
	"time"

	"github.com/xtaci/kcp-go"

	"scanvator/src/config"
	"scanvator/src/dispatcher"
	"scanvator/src/elev"
)

var errNoBoard = errors.New("server has no status board")

// Board reports the last known state of every car.
type Board interface {
	All() map[int]elev.CarState
}

type Server struct {
	hall   *dispatcher.HallRouter
	car    *dispatcher.CarRouter
	board  Board
	idle   time.Duration
	ln     *kcp.Listener
	panels *panelManager
	done   chan struct{}
	stop   sync.Once
}

type ServerOption func(*Server)

// WithBoard enables status queries.
func WithBoard(board Board) ServerOption {
	return func(s *Server) { s.board = board }
}

// WithIdleTimeout drops panels that stay silent for longer than d.
func WithIdleTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.idle = d }
}

// Listen opens the panel listener on addr. Serve must be called to accept
// sessions.
func Listen(addr string, hall *dispatcher.HallRouter, car *dispatcher.CarRouter, opts ...ServerOption) (*Server, error) {
	ln, err := kcp.ListenWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	done := make(chan struct{})
	s := &Server{
		hall:   hall,
		car:    car,
		idle:   config.PanelIdleTimeout,
		ln:     ln,
		panels: startPanelManager(done),
		done:   done,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Panels returns the remote addresses of the connected panels.
func (s *Server) Panels() []string {
	return s.panels.current()
}

// Close stops Serve and every open session.
func (s *Server) Close() error {
	s.stop.Do(func() { close(s.done) })
	return s.ln.Close()
}

// Serve accepts panel sessions until ctx is cancelled or Close is called.
func (s *Server) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	defer s.Close()

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	slog.Info("Panel server listening", "addr", s.Addr())
	for {
		sess, err := s.ln.AcceptKCP()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-s.done:
				return nil
			default:
			}
			return fmt.Errorf("accept panel: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(sess)
		}()
	}
}

func (s *Server) handle(sess *kcp.UDPSession) {
	addr := sess.RemoteAddr().String()
	s.panels.update(addr, true)

	finished := make(chan struct{})
	defer func() {
		close(finished)
		sess.Close()
		s.panels.update(addr, false)
	}()
	go func() {
		select {
		case <-s.done:
			sess.Close()
		case <-finished:
		}
	}()

	sess.SetStreamMode(true)
	sess.SetNoDelay(1, 10, 2, 1)
	dec := json.NewDecoder(sess)
	enc := json.NewEncoder(sess)
	for {
		if err := sess.SetReadDeadline(time.Now().Add(s.idle)); err != nil {
			slog.Warn("Failed to set panel deadline", "panel", addr, "error", err)
			return
		}
		var f frame
		if err := dec.Decode(&f); err != nil {
			slog.Debug("Panel session ended", "panel", addr, "error", err)
			return
		}
		slog.Debug("Received panel message", "panel", addr, "type", f.Type, "seq", f.Seq)

		reply := Message[Reply]{Type: ReplyMsg, Seq: f.Seq, Content: s.dispatch(f)}
		if err := enc.Encode(reply); err != nil {
			slog.Warn("Failed to send reply", "panel", addr, "error", err)
			return
		}
	}
}

func (s *Server) dispatch(f frame) Reply {
	switch f.Type {
	case HallPressMsg:
		press, err := decode[HallPress](f)
		if err != nil {
			return errorReply(Reply{}, err)
		}
		carID, outcome, err := s.hall.Submit(press.Floor, press.Dir)
		reply := Reply{Outcome: outcome, CarID: carID}
		if err != nil {
			return errorReply(reply, err)
		}
		return reply

	case CarPressMsg:
		press, err := decode[CarPress](f)
		if err != nil {
			return errorReply(Reply{}, err)
		}
		outcome, err := s.car.Submit(press.Floor, press.CarID)
		reply := Reply{Outcome: outcome, CarID: press.CarID}
		if err != nil {
			return errorReply(reply, err)
		}
		return reply

	case WithdrawMsg:
		press, err := decode[CarPress](f)
		if err != nil {
			return errorReply(Reply{}, err)
		}
		reply := Reply{CarID: press.CarID}
		if err := s.car.Withdraw(press.Floor, press.CarID); err != nil {
			return errorReply(reply, err)
		}
		return reply

	case StatusQueryMsg:
		if s.board == nil {
			return errorReply(Reply{}, errNoBoard)
		}
		cars := slices.Collect(maps.Values(s.board.All()))
		slices.SortFunc(cars, func(a, b elev.CarState) int { return cmp.Compare(a.ID, b.ID) })
		return Reply{Cars: cars}
	}
	return errorReply(Reply{}, fmt.Errorf("unexpected %s message", f.Type))
}

func decode[T MsgContent](f frame) (T, error) {
	var content T
	if err := json.Unmarshal(f.Content, &content); err != nil {
		return content, fmt.Errorf("decode %s: %w", f.Type, err)
	}
	return content, nil
}
