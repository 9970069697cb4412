package dispatcher

import (
	"scanvator/src/executor"
	"scanvator/src/types"
)

// Car is the part of a car controller the routers need.
type Car interface {
	ID() int
	MaxFloor() int
	Status() executor.Status
	SubmitExternal(floor int, dir types.Direction) (types.Outcome, error)
	SubmitInternal(floor int) (types.Outcome, error)
	Withdraw(floor int) error
}

// Policy picks the car that should serve a hall request. fleet is in
// registration order. Implementations must be deterministic.
type Policy interface {
	Assign(req types.HallRequest, fleet []executor.Status) (carID int, ok bool)
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(req types.HallRequest, fleet []executor.Status) (int, bool)

func (f PolicyFunc) Assign(req types.HallRequest, fleet []executor.Status) (int, bool) {
	return f(req, fleet)
}
