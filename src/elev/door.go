package elev

import (
	"context"
	"time"

	"scanvator/src/timer"
	"scanvator/src/types"
)

// Door emits an event on every state change. Repeated Open or Close calls
// are ignored.
type Door struct {
	state  types.DoorState
	notify func(types.EventKind)
}

func (door *Door) State() types.DoorState {
	return door.state
}

func (door *Door) Open() {
	if door.state == types.DoorOpen {
		return
	}
	door.state = types.DoorOpen
	door.notify(types.DoorOpenedEvent)
}

func (door *Door) Close() {
	if door.state == types.DoorClosed {
		return
	}
	door.state = types.DoorClosed
	door.notify(types.DoorClosedEvent)
}

// Cycle opens the door, keeps it open for dwell and closes it. The door is
// closed on return even if ctx is cancelled during the dwell.
func (door *Door) Cycle(ctx context.Context, dwell time.Duration) error {
	door.Open()
	err := timer.Wait(ctx, dwell)
	door.Close()
	return err
}
