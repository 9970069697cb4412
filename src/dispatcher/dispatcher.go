// Package dispatcher routes hall calls and car calls to car controllers.
package dispatcher

import (
	"fmt"
	"log/slog"

	"scanvator/src/types"
)

// HallRouter assigns each hall call to exactly one car.
type HallRouter struct {
	registry *Registry
	policy   Policy
}

// NewHallRouter uses ParityPolicy when policy is nil.
func NewHallRouter(registry *Registry, policy Policy) *HallRouter {
	if policy == nil {
		policy = ParityPolicy{}
	}
	return &HallRouter{registry: registry, policy: policy}
}

// Submit returns the id of the car the call was given to.
func (r *HallRouter) Submit(floor int, dir types.Direction) (int, types.Outcome, error) {
	req := types.HallRequest{Floor: floor, Dir: dir}
	if floor < 0 || floor > r.registry.MaxFloor() {
		return 0, 0, fmt.Errorf("hall call %s: %w", req, types.ErrInvalidFloor)
	}
	if !dir.Valid() {
		return 0, 0, fmt.Errorf("hall call at %d: %w", floor, types.ErrInvalidDir)
	}
	slog.Debug("External request submitted", "floor", floor, "direction", dir)

	carID, ok := r.policy.Assign(req, r.registry.statuses())
	if !ok {
		slog.Warn("Hall call unroutable", "request", req)
		return 0, 0, fmt.Errorf("hall call %s: %w", req, types.ErrUnroutable)
	}
	car, err := r.registry.Lookup(carID)
	if err != nil {
		return 0, 0, fmt.Errorf("hall call %s: policy chose %w", req, err)
	}

	outcome, err := car.SubmitExternal(floor, dir)
	if err != nil {
		return carID, outcome, err
	}
	slog.Info("Request assigned to car", "request", req, "car", carID, "outcome", outcome)
	return carID, outcome, nil
}

// CarRouter forwards car calls to the car they were made in.
type CarRouter struct {
	registry *Registry
}

func NewCarRouter(registry *Registry) *CarRouter {
	return &CarRouter{registry: registry}
}

func (r *CarRouter) Submit(floor, carID int) (types.Outcome, error) {
	req := types.CarRequest{Floor: floor, CarID: carID}
	car, err := r.registry.Lookup(carID)
	if err != nil {
		return 0, fmt.Errorf("car call %s: %w", req, err)
	}
	outcome, err := car.SubmitInternal(floor)
	if err != nil {
		return outcome, err
	}
	if outcome == types.AlreadyAtFloor {
		slog.Info("Already on this floor", "request", req)
	}
	return outcome, nil
}

// Withdraw cancels a queued car call.
func (r *CarRouter) Withdraw(floor, carID int) error {
	car, err := r.registry.Lookup(carID)
	if err != nil {
		return fmt.Errorf("withdraw %s: %w", types.CarRequest{Floor: floor, CarID: carID}, err)
	}
	return car.Withdraw(floor)
}
