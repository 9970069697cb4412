package dispatcher

import (
	"log/slog"
	"slices"
	"time"

	"github.com/tiendc/go-deepcopy"

	"scanvator/src/config"
	"scanvator/src/executor"
	"scanvator/src/types"
)

// timeToServe estimates how long a car needs before it opens its door for req.
//   - simulates the scan on a copy of the car's queues with req added
//   - adds travel time per floor and door time per earlier stop
//   - adds a penalty every time the car changes travel direction
func timeToServe(status executor.Status, req types.HallRequest) time.Duration {
	sim := new(executor.Status)
	if err := deepcopy.Copy(sim, &status); err != nil {
		panic(err)
	}
	if !slices.Contains(sim.Up, req.Floor) && !slices.Contains(sim.Down, req.Floor) {
		if req.Dir == types.Down {
			sim.Down = append(sim.Down, req.Floor)
		} else {
			sim.Up = append(sim.Up, req.Floor)
		}
	}

	var duration time.Duration
	floor, dir := sim.Car.Floor, sim.Car.Dir
	for _, stop := range executor.Plan(*sim) {
		if stop.Travel != dir && stop.Floor != floor {
			duration += config.DirChangePenalty
		}
		duration += time.Duration(abs(stop.Floor-floor)) * config.TravelDuration
		if stop.Floor == req.Floor {
			slog.Debug("Cost calculated", "car", sim.Car.ID, "request", req, "cost", duration)
			return duration
		}
		duration += config.DoorOpenDuration
		floor, dir = stop.Floor, stop.Serve
	}
	return duration
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
