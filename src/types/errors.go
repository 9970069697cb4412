package types

import "errors"

var (
	ErrInvalidFloor  = errors.New("floor outside building")
	ErrInvalidDir    = errors.New("invalid direction")
	ErrUnroutable    = errors.New("no car matches hall request")
	ErrUnknownCar    = errors.New("unknown car")
	ErrInvalidMotion = errors.New("destination unreachable in commanded direction")
	ErrNotQueued     = errors.New("floor not queued")
	ErrDuplicateCar  = errors.New("duplicate car id")
)
