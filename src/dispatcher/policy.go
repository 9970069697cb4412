package dispatcher

import (
	"scanvator/src/executor"
	"scanvator/src/types"
)

// ParityPolicy gives odd floors to the first car with an odd id and even
// floors to the first car with an even id.
type ParityPolicy struct{}

func (ParityPolicy) Assign(req types.HallRequest, fleet []executor.Status) (int, bool) {
	floorOdd := req.Floor%2 != 0
	for _, status := range fleet {
		if (status.Car.ID%2 != 0) == floorOdd {
			return status.Car.ID, true
		}
	}
	return 0, false
}

// NearestPolicy gives the call to the car with the lowest estimated time to
// serve it. Ties go to the lowest car id.
type NearestPolicy struct{}

func (NearestPolicy) Assign(req types.HallRequest, fleet []executor.Status) (int, bool) {
	if len(fleet) == 0 {
		return 0, false
	}
	assignee := fleet[0].Car.ID
	lowestCost := timeToServe(fleet[0], req)
	for _, status := range fleet[1:] {
		cost := timeToServe(status, req)
		if cost < lowestCost || (cost == lowestCost && status.Car.ID < assignee) {
			lowestCost = cost
			assignee = status.Car.ID
		}
	}
	return assignee, true
}
