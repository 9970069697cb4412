package types

type EventKind int

const (
	StepEvent EventKind = iota
	DoorOpenedEvent
	DoorClosedEvent
)

func (k EventKind) String() string {
	switch k {
	case StepEvent:
		return "step"
	case DoorOpenedEvent:
		return "door-opened"
	case DoorClosedEvent:
		return "door-closed"
	}
	return "unknown"
}

// Event is the observable output of a car: one per floor passed while moving
// and one per door transition.
type Event struct {
	Kind  EventKind
	CarID int
	Floor int
	Dir   Direction
}

// Observer receives events from a single car. Notify is called from the
// car's own scheduling goroutine.
type Observer interface {
	Notify(event Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(event Event)

func (f ObserverFunc) Notify(event Event) {
	f(event)
}
