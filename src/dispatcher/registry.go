package dispatcher

import (
	"fmt"

	"scanvator/src/executor"
	"scanvator/src/types"
)

// Registry maps car ids to their controllers. It is built once at start-up
// and never changes afterwards, so it needs no locking.
type Registry struct {
	cars     []Car
	byID     map[int]Car
	maxFloor int
}

func NewRegistry(cars ...Car) (*Registry, error) {
	r := &Registry{
		cars: make([]Car, 0, len(cars)),
		byID: make(map[int]Car, len(cars)),
	}
	for i, car := range cars {
		if _, exists := r.byID[car.ID()]; exists {
			return nil, fmt.Errorf("register car %d: %w", car.ID(), types.ErrDuplicateCar)
		}
		r.cars = append(r.cars, car)
		r.byID[car.ID()] = car
		if i == 0 || car.MaxFloor() < r.maxFloor {
			r.maxFloor = car.MaxFloor()
		}
	}
	return r, nil
}

func (r *Registry) Lookup(id int) (Car, error) {
	car, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("car %d: %w", id, types.ErrUnknownCar)
	}
	return car, nil
}

// All returns the cars in registration order.
func (r *Registry) All() []Car {
	return append([]Car(nil), r.cars...)
}

func (r *Registry) Len() int {
	return len(r.cars)
}

// MaxFloor is the highest floor every registered car can reach.
func (r *Registry) MaxFloor() int {
	return r.maxFloor
}

func (r *Registry) statuses() []executor.Status {
	fleet := make([]executor.Status, 0, len(r.cars))
	for _, car := range r.cars {
		fleet = append(fleet, car.Status())
	}
	return fleet
}
