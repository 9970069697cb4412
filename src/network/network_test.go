package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"scanvator/src/dispatcher"
	"scanvator/src/elev"
	"scanvator/src/executor"
	"scanvator/src/types"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type staticBoard map[int]elev.CarState

func (b staticBoard) All() map[int]elev.CarState {
	return b
}

// startServer serves a two car fleet on a loopback port and returns a panel
// connected to it.
func startServer(t *testing.T, opts ...ServerOption) (*Server, *Panel, []*executor.Controller) {
	t.Helper()
	one, two := executor.New(1, 10), executor.New(2, 10)
	registry, err := dispatcher.NewRegistry(one, two)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := Listen("127.0.0.1:0", dispatcher.NewHallRouter(registry, nil), dispatcher.NewCarRouter(registry), opts...)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-served:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve returned %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Serve did not stop after cancel")
		}
	})

	panel, err := Dial(srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { panel.Close() })
	return srv, panel, []*executor.Controller{one, two}
}

func TestPanelHallPress(t *testing.T) {
	_, panel, cars := startServer(t)

	carID, outcome, err := panel.PressHall(3, types.Up)
	if err != nil {
		t.Fatalf("PressHall: %v", err)
	}
	if carID != 1 || outcome != types.Queued {
		t.Errorf("PressHall(3, UP) = car %d %s, want car 1 queued", carID, outcome)
	}
	if _, outcome, _ = panel.PressHall(3, types.Up); outcome != types.AlreadyQueued {
		t.Errorf("second press = %s, want already queued", outcome)
	}
	if carID, _, _ = panel.PressHall(8, types.Down); carID != 2 {
		t.Errorf("PressHall(8, DOWN) went to car %d, want 2", carID)
	}

	if got := cars[0].Status().Up; len(got) != 1 || got[0] != 3 {
		t.Errorf("car 1 up queue = %v, want [3]", got)
	}
	if got := cars[1].Status().Down; len(got) != 1 || got[0] != 8 {
		t.Errorf("car 2 down queue = %v, want [8]", got)
	}
}

func TestPanelErrors(t *testing.T) {
	_, panel, _ := startServer(t)

	if _, _, err := panel.PressHall(11, types.Up); !errors.Is(err, types.ErrInvalidFloor) {
		t.Errorf("PressHall(11) error = %v, want ErrInvalidFloor", err)
	}
	if _, _, err := panel.PressHall(4, 0); !errors.Is(err, types.ErrInvalidDir) {
		t.Errorf("PressHall(4, 0) error = %v, want ErrInvalidDir", err)
	}
	if _, err := panel.PressCar(5, 9); !errors.Is(err, types.ErrUnknownCar) {
		t.Errorf("PressCar(5, 9) error = %v, want ErrUnknownCar", err)
	}
	if err := panel.Withdraw(5, 1); !errors.Is(err, types.ErrNotQueued) {
		t.Errorf("Withdraw(5, 1) error = %v, want ErrNotQueued", err)
	}
	if _, err := panel.Cars(); err == nil || err.Error() != errNoBoard.Error() {
		t.Errorf("Cars() without board error = %v", err)
	}

	// The session stays usable after a rejected press.
	if _, err := panel.PressCar(5, 1); err != nil {
		t.Errorf("PressCar after errors: %v", err)
	}
}

func TestPanelCarPress(t *testing.T) {
	_, panel, cars := startServer(t)

	if outcome, err := panel.PressCar(0, 2); err != nil || outcome != types.AlreadyAtFloor {
		t.Errorf("PressCar(0, 2) = %s, %v, want already at floor", outcome, err)
	}
	if outcome, err := panel.PressCar(6, 2); err != nil || outcome != types.Queued {
		t.Errorf("PressCar(6, 2) = %s, %v, want queued", outcome, err)
	}
	if err := panel.Withdraw(6, 2); err != nil {
		t.Errorf("Withdraw(6, 2): %v", err)
	}
	if n := cars[1].Status().Pending(); n != 0 {
		t.Errorf("car 2 has %d pending stops after withdraw", n)
	}
}

func TestPanelCars(t *testing.T) {
	board := staticBoard{
		2: {ID: 2, Floor: 8, Dir: types.Down},
		1: {ID: 1, Floor: 3, Dir: types.Up, Door: types.DoorOpen},
	}
	_, panel, _ := startServer(t, WithBoard(board))

	cars, err := panel.Cars()
	if err != nil {
		t.Fatalf("Cars: %v", err)
	}
	if len(cars) != 2 || cars[0] != board[1] || cars[1] != board[2] {
		t.Errorf("Cars() = %+v", cars)
	}
}

func TestServerTracksPanels(t *testing.T) {
	srv, panel, _ := startServer(t)
	if _, err := panel.PressCar(4, 1); err != nil {
		t.Fatal(err)
	}
	if got := srv.Panels(); len(got) != 1 {
		t.Errorf("Panels() = %v, want one panel", got)
	}
}

func TestServerDropsIdlePanel(t *testing.T) {
	srv, panel, _ := startServer(t, WithIdleTimeout(50*time.Millisecond))
	if _, err := panel.PressCar(4, 1); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for len(srv.Panels()) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("idle panel still tracked: %v", srv.Panels())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReplyErrorMapping(t *testing.T) {
	wrapped := fmt.Errorf("hall call 12-UP: %w", types.ErrInvalidFloor)
	err := errorReply(Reply{}, wrapped).err()
	if !errors.Is(err, types.ErrInvalidFloor) || err.Error() != wrapped.Error() {
		t.Errorf("wrapped sentinel mapped to %v", err)
	}

	err = errorReply(Reply{}, errors.New("plain")).err()
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Unwrap() != nil {
		t.Errorf("plain error mapped to %#v", err)
	}

	if err := (Reply{Outcome: types.Queued}).err(); err != nil {
		t.Errorf("successful reply has error %v", err)
	}
}
