package dispatcher

import (
	"scanvator/src/elev"
	"scanvator/src/types"
)

func carState(id, floor int) elev.CarState {
	return elev.CarState{ID: id, Floor: floor, Dir: types.Up}
}
