// Package executor runs the scan scheduling loop of a single car.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"scanvator/src/config"
	"scanvator/src/elev"
	"scanvator/src/queue"
	"scanvator/src/types"
)

// Status is a point-in-time view of a controller.
type Status struct {
	Car  elev.CarState
	Scan types.ScanState
	Up   []int
	Down []int
}

// Pending is the number of queued stops.
func (s Status) Pending() int {
	return len(s.Up) + len(s.Down)
}

// Controller owns one car and its two direction queues. Submissions may come
// from any goroutine; the car itself is only touched by the scheduling loop.
type Controller struct {
	car      *elev.Car
	maxFloor int
	dwell    time.Duration
	observer types.Observer
	wake     chan struct{}

	mu       sync.Mutex
	up       *queue.Queue
	down     *queue.Queue
	scan     types.ScanState
	carState elev.CarState
	inFlight int
	busy     bool
}

type Option func(*Controller)

// WithDwell keeps the door open for d at every stop.
func WithDwell(d time.Duration) Option {
	return func(c *Controller) { c.dwell = d }
}

// WithObserver forwards every car event to observer.
func WithObserver(observer types.Observer) Option {
	return func(c *Controller) { c.observer = observer }
}

func New(carID, maxFloor int, opts ...Option) *Controller {
	c := &Controller{
		maxFloor: maxFloor,
		wake:     make(chan struct{}, config.WakeBufferSize),
		up:       queue.New(types.Up),
		down:     queue.New(types.Down),
		scan:     types.ScanIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.car = elev.NewCar(carID, maxFloor, types.ObserverFunc(c.onCarEvent))
	c.carState = c.car.State()
	return c
}

func (c *Controller) ID() int {
	return c.car.ID()
}

func (c *Controller) MaxFloor() int {
	return c.maxFloor
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Car:  c.carState,
		Scan: c.scan,
		Up:   c.up.Floors(),
		Down: c.down.Floors(),
	}
}

// SubmitExternal queues a hall call in the queue of its travel direction.
func (c *Controller) SubmitExternal(floor int, dir types.Direction) (types.Outcome, error) {
	if err := c.checkFloor(floor); err != nil {
		return 0, err
	}
	if !dir.Valid() {
		return 0, fmt.Errorf("car %d: hall call at %d: %w", c.ID(), floor, types.ErrInvalidDir)
	}

	c.mu.Lock()
	outcome := c.insert(floor, dir)
	c.mu.Unlock()

	slog.Debug("External request", "car", c.ID(), "floor", floor, "direction", dir, "outcome", outcome)
	return outcome, nil
}

// SubmitInternal queues a car call relative to the car's current floor. A
// call for the current floor leaves the queues untouched.
func (c *Controller) SubmitInternal(floor int) (types.Outcome, error) {
	if err := c.checkFloor(floor); err != nil {
		return 0, err
	}

	c.mu.Lock()
	var outcome types.Outcome
	current := c.carState.Floor
	switch {
	case floor > current:
		outcome = c.insert(floor, types.Up)
	case floor < current:
		outcome = c.insert(floor, types.Down)
	default:
		outcome = types.AlreadyAtFloor
	}
	c.mu.Unlock()

	slog.Debug("Internal request", "car", c.ID(), "floor", floor, "current", current, "outcome", outcome)
	return outcome, nil
}

// Withdraw removes a queued stop. A stop the car is already travelling to
// cannot be withdrawn.
func (c *Controller) Withdraw(floor int) error {
	c.mu.Lock()
	removed := c.up.Remove(floor) || c.down.Remove(floor)
	c.mu.Unlock()

	if !removed {
		return fmt.Errorf("car %d: withdraw %d: %w", c.ID(), floor, types.ErrNotQueued)
	}
	slog.Debug("Request withdrawn", "car", c.ID(), "floor", floor)
	return nil
}

func (c *Controller) checkFloor(floor int) error {
	if floor < 0 || floor > c.maxFloor {
		return fmt.Errorf("car %d: floor %d not in [0, %d]: %w", c.ID(), floor, c.maxFloor, types.ErrInvalidFloor)
	}
	return nil
}

// insert must be called with c.mu held. A floor lives in at most one queue.
func (c *Controller) insert(floor int, dir types.Direction) types.Outcome {
	if c.up.Contains(floor) || c.down.Contains(floor) || (c.busy && c.inFlight == floor) {
		return types.AlreadyQueued
	}
	c.queue(dir).Insert(floor)
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return types.Queued
}

// RunScanLoop serves every queued stop and returns once both queues are
// empty. It must not run concurrently with Run.
func (c *Controller) RunScanLoop() error {
	return c.drain(context.Background())
}

// Run serves stops until ctx is done, sleeping while both queues are empty.
// It returns ctx.Err() on cancellation, or the first motion error, which
// only stops this car.
func (c *Controller) Run(ctx context.Context) error {
	slog.Info("Car controller started", "car", c.ID(), "floor", c.car.Floor())
	for {
		if err := c.drain(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
		}
	}
}

func (c *Controller) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, ok := c.nextStop()
		if !ok {
			return nil
		}
		if err := c.serve(ctx, s); err != nil {
			return err
		}
	}
}

func (c *Controller) serve(ctx context.Context, s Stop) error {
	slog.Debug("Serving stop", "car", c.ID(), "floor", s.Floor, "travel", s.Travel, "scan", s.Serve)
	if err := c.car.MoveTo(s.Travel, s.Floor); err != nil {
		c.finish()
		slog.Error("Invalid motion command", "car", c.ID(), "error", err)
		return err
	}
	c.car.SetDir(s.Serve)
	c.publish()

	err := c.car.Door().Cycle(ctx, c.dwell)
	c.finish()
	return err
}

func (c *Controller) publish() {
	state := c.car.State()
	c.mu.Lock()
	c.carState = state
	c.mu.Unlock()
}

func (c *Controller) finish() {
	state := c.car.State()
	c.mu.Lock()
	c.carState = state
	c.busy = false
	c.mu.Unlock()
}

// onCarEvent runs on the loop goroutine for every step and door event.
func (c *Controller) onCarEvent(event types.Event) {
	c.publish()
	if c.observer != nil {
		c.observer.Notify(event)
	}
}
