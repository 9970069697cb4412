package elev

import (
	"context"
	"maps"

	"scanvator/src/types"
)

// StateCmd runs inside the state manager goroutine.
type StateCmd struct {
	Exec func(states map[int]CarState)
}

// StateMgr keeps the last known state of every car, built from car events.
// All access is serialised through its command channel.
type StateMgr struct {
	ctx  context.Context
	cmds chan StateCmd
}

// StartStateMgr starts the manager goroutine. It stops when ctx is done;
// later calls are dropped and getters return zero values.
func StartStateMgr(ctx context.Context) *StateMgr {
	mgr := &StateMgr{
		ctx:  ctx,
		cmds: make(chan StateCmd),
	}
	go func() {
		states := make(map[int]CarState)
		for {
			select {
			case cmd := <-mgr.cmds:
				cmd.Exec(states)
			case <-ctx.Done():
				return
			}
		}
	}()
	return mgr
}

func (mgr *StateMgr) exec(cmd StateCmd) bool {
	select {
	case mgr.cmds <- cmd:
		return true
	case <-mgr.ctx.Done():
		return false
	}
}

// Notify implements types.Observer.
func (mgr *StateMgr) Notify(event types.Event) {
	mgr.exec(StateCmd{
		Exec: func(states map[int]CarState) {
			state := states[event.CarID]
			state.ID = event.CarID
			state.Floor = event.Floor
			state.Dir = event.Dir
			switch event.Kind {
			case types.StepEvent:
				state.Motion = types.Moving
			case types.DoorOpenedEvent:
				state.Motion = types.Idle
				state.Door = types.DoorOpen
			case types.DoorClosedEvent:
				state.Door = types.DoorClosed
			}
			states[event.CarID] = state
		},
	})
}

// GetState returns the last known state of a car.
func (mgr *StateMgr) GetState(carID int) (CarState, bool) {
	type result struct {
		state CarState
		ok    bool
	}
	reply := make(chan result, 1)
	if !mgr.exec(StateCmd{
		Exec: func(states map[int]CarState) {
			state, ok := states[carID]
			reply <- result{state, ok}
		},
	}) {
		return CarState{}, false
	}
	r := <-reply
	return r.state, r.ok
}

// All returns a copy of every known car state.
func (mgr *StateMgr) All() map[int]CarState {
	reply := make(chan map[int]CarState, 1)
	if !mgr.exec(StateCmd{
		Exec: func(states map[int]CarState) {
			reply <- maps.Clone(states)
		},
	}) {
		return nil
	}
	return <-reply
}
