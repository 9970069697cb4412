package types

import "fmt"

// HallRequest is a button press on a floor, not yet tied to a car.
type HallRequest struct {
	Floor int
	Dir   Direction
}

func (r HallRequest) String() string {
	return fmt.Sprintf("Hall%s(%d)", r.Dir, r.Floor)
}

// CarRequest is a destination pressed inside a specific car.
type CarRequest struct {
	Floor int
	CarID int
}

func (r CarRequest) String() string {
	return fmt.Sprintf("Car%d(%d)", r.CarID, r.Floor)
}

// Outcome reports what an accepted submission did to the queues.
type Outcome int

const (
	Queued Outcome = iota
	AlreadyQueued
	AlreadyAtFloor
)

func (o Outcome) String() string {
	switch o {
	case Queued:
		return "QUEUED"
	case AlreadyQueued:
		return "ALREADY_QUEUED"
	case AlreadyAtFloor:
		return "ALREADY_AT_FLOOR"
	}
	return "UNKNOWN"
}
