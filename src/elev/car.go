package elev

import (
	"fmt"
	"log/slog"

	"scanvator/src/types"
)

// CarState is a copy of the fields a display or dispatcher may look at.
type CarState struct {
	ID     int
	Floor  int
	Dir    types.Direction
	Motion types.MotionState
	Door   types.DoorState
}

// Car is one elevator car. It is owned by a single controller and must only
// be mutated from that controller's goroutine.
type Car struct {
	id       int
	maxFloor int
	floor    int
	dir      types.Direction
	motion   types.MotionState
	door     *Door
	observer types.Observer
}

// NewCar returns an idle car on floor 0 facing up, with its door closed.
func NewCar(id, maxFloor int, observer types.Observer) *Car {
	car := &Car{
		id:       id,
		maxFloor: maxFloor,
		dir:      types.Up,
		motion:   types.Idle,
		observer: observer,
	}
	car.door = &Door{notify: car.emit}
	return car
}

func (car *Car) ID() int                   { return car.id }
func (car *Car) Floor() int                { return car.floor }
func (car *Car) Dir() types.Direction      { return car.dir }
func (car *Car) Motion() types.MotionState { return car.motion }
func (car *Car) Door() *Door               { return car.door }

func (car *Car) State() CarState {
	return CarState{
		ID:     car.id,
		Floor:  car.floor,
		Dir:    car.dir,
		Motion: car.motion,
		Door:   car.door.State(),
	}
}

// SetDir changes the announced direction without moving the car.
func (car *Car) SetDir(dir types.Direction) {
	car.dir = dir
}

// MoveTo steps the car one floor at a time towards dest. A Step event is
// emitted on every floor, start and destination included. The car is Moving
// for the duration and Idle on return.
func (car *Car) MoveTo(dir types.Direction, dest int) error {
	if !dir.Valid() {
		return fmt.Errorf("car %d: move %d: %w", car.id, dir, types.ErrInvalidDir)
	}
	if dest < 0 || dest > car.maxFloor || (dest-car.floor)*int(dir) < 0 {
		return fmt.Errorf("car %d: move %s from %d to %d: %w",
			car.id, dir, car.floor, dest, types.ErrInvalidMotion)
	}

	car.dir = dir
	car.motion = types.Moving
	for {
		car.emit(types.StepEvent)
		if car.floor == dest {
			break
		}
		car.floor += int(dir)
	}
	car.motion = types.Idle
	slog.Debug("Car arrived", "car", car.id, "floor", car.floor, "direction", car.dir)
	return nil
}

func (car *Car) emit(kind types.EventKind) {
	if car.observer == nil {
		return
	}
	car.observer.Notify(types.Event{
		Kind:  kind,
		CarID: car.id,
		Floor: car.floor,
		Dir:   car.dir,
	})
}
