package types

// Direction is the last commanded travel direction of a car. A car keeps its
// direction while idle, so there is no stop value.
type Direction int

const (
	Up   Direction = 1
	Down Direction = -1
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func (d Direction) Opposite() Direction {
	return -d
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	}
	return "INVALID"
}

type MotionState int

const (
	Idle MotionState = iota
	Moving
)

func (m MotionState) String() string {
	if m == Moving {
		return "MOVING"
	}
	return "IDLE"
}

type DoorState bool

const (
	DoorClosed DoorState = false
	DoorOpen   DoorState = true
)

func (d DoorState) String() string {
	if d == DoorOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// ScanState is the scheduling state of a car controller.
type ScanState int

const (
	ScanIdle ScanState = iota
	ScanningUp
	ScanningDown
)

func ScanStateFor(dir Direction) ScanState {
	if dir == Down {
		return ScanningDown
	}
	return ScanningUp
}

func (s ScanState) String() string {
	switch s {
	case ScanningUp:
		return "SCANNING_UP"
	case ScanningDown:
		return "SCANNING_DOWN"
	}
	return "IDLE"
}
