package network

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/xtaci/kcp-go"

	"scanvator/src/config"
	"scanvator/src/elev"
	"scanvator/src/types"
)

// Panel is a remote button panel. Calls are serialised over one session.
// After a transport error the panel must be closed and dialled again.
type Panel struct {
	mu      sync.Mutex
	sess    *kcp.UDPSession
	enc     *json.Encoder
	dec     *json.Decoder
	seq     uint32
	timeout time.Duration
}

func Dial(addr string) (*Panel, error) {
	sess, err := kcp.DialWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("dial panel server %s: %w", addr, err)
	}
	sess.SetStreamMode(true)
	sess.SetNoDelay(1, 10, 2, 1)
	return &Panel{
		sess:    sess,
		enc:     json.NewEncoder(sess),
		dec:     json.NewDecoder(sess),
		timeout: config.PanelReadTimeout,
	}, nil
}

func (p *Panel) Close() error {
	return p.sess.Close()
}

// PressHall returns the car the call was assigned to.
func (p *Panel) PressHall(floor int, dir types.Direction) (int, types.Outcome, error) {
	reply, err := roundTrip(p, HallPressMsg, HallPress{Floor: floor, Dir: dir})
	return reply.CarID, reply.Outcome, err
}

func (p *Panel) PressCar(floor, carID int) (types.Outcome, error) {
	reply, err := roundTrip(p, CarPressMsg, CarPress{Floor: floor, CarID: carID})
	return reply.Outcome, err
}

func (p *Panel) Withdraw(floor, carID int) error {
	_, err := roundTrip(p, WithdrawMsg, CarPress{Floor: floor, CarID: carID})
	return err
}

// Cars returns the server's view of every car, ordered by id.
func (p *Panel) Cars() ([]elev.CarState, error) {
	reply, err := roundTrip(p, StatusQueryMsg, StatusQuery{})
	return reply.Cars, err
}

func roundTrip[T MsgContent](p *Panel, msgType MsgType, content T) (Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	msg := Message[T]{Type: msgType, Seq: p.seq, Content: content}
	if err := p.sess.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		return Reply{}, fmt.Errorf("set deadline: %w", err)
	}
	if err := p.enc.Encode(msg); err != nil {
		return Reply{}, fmt.Errorf("send %s: %w", msgType, err)
	}
	var reply Message[Reply]
	if err := p.dec.Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("await reply to %s: %w", msgType, err)
	}
	if reply.Type != ReplyMsg || reply.Seq != msg.Seq {
		return Reply{}, fmt.Errorf("unexpected %s #%d in reply to %s #%d", reply.Type, reply.Seq, msgType, msg.Seq)
	}
	return reply.Content, reply.Content.err()
}
