package executor

import (
	"log/slog"

	"scanvator/src/queue"
	"scanvator/src/types"
)

// Stop is the next floor to serve. Travel is the direction the car moves in
// to get there, Serve the direction it announces once it arrives. They only
// differ when the car repositions against its scan direction.
type Stop struct {
	Floor  int
	Travel types.Direction
	Serve  types.Direction
}

func (c *Controller) queue(dir types.Direction) *queue.Queue {
	if dir == types.Down {
		return c.down
	}
	return c.up
}

// ChooseStop removes and returns the next stop for a car on floor facing dir:
//  1. Reverse only when the queue for dir is empty.
//  2. Serve the nearest queued floor at or ahead of the car in its direction.
//  3. If the only stops left in the active queue lie behind the car, travel
//     back to the farthest one and start a new pass from there.
//
// It returns false when both queues are empty.
func ChooseStop(floor int, dir types.Direction, up, down *queue.Queue) (Stop, bool) {
	if up.IsEmpty() && down.IsEmpty() {
		return Stop{}, false
	}
	pick := func(d types.Direction) *queue.Queue {
		if d == types.Down {
			return down
		}
		return up
	}

	if pick(dir).IsEmpty() {
		dir = dir.Opposite()
	}

	active := pick(dir)
	s := Stop{Travel: dir, Serve: dir}
	if next, ok := active.NextFrom(floor); ok {
		active.Remove(next)
		s.Floor = next
	} else {
		s.Floor, _ = active.PopNext()
		s.Travel = dir.Opposite()
	}
	return s, true
}

// Plan returns the order in which a car in the given status would serve its
// queued stops if nothing else were submitted.
func Plan(status Status) []Stop {
	up, down := queue.New(types.Up), queue.New(types.Down)
	for _, f := range status.Up {
		up.Insert(f)
	}
	for _, f := range status.Down {
		down.Insert(f)
	}

	floor, dir := status.Car.Floor, status.Car.Dir
	var plan []Stop
	for {
		s, ok := ChooseStop(floor, dir, up, down)
		if !ok {
			return plan
		}
		plan = append(plan, s)
		floor, dir = s.Floor, s.Serve
	}
}

// nextStop pops the next stop for the loop and marks it in flight. It marks
// the controller idle when both queues are empty.
func (c *Controller) nextStop() (Stop, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	floor, dir := c.car.Floor(), c.car.Dir()
	s, ok := ChooseStop(floor, dir, c.up, c.down)
	if !ok {
		if c.scan != types.ScanIdle {
			slog.Debug("Car idle", "car", c.car.ID(), "floor", floor, "direction", dir)
		}
		c.scan = types.ScanIdle
		return Stop{}, false
	}

	if s.Serve != dir {
		c.car.SetDir(s.Serve)
		slog.Debug("Direction reversed", "car", c.car.ID(), "floor", floor, "direction", s.Serve)
	}
	c.scan = types.ScanStateFor(s.Serve)
	c.carState.Dir = s.Serve
	c.inFlight = s.Floor
	c.busy = true
	return s, true
}
