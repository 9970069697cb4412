package timer

import (
	"context"
	"log/slog"
	"time"
)

// Wait blocks for duration or until ctx is done. A non-positive duration
// returns immediately.
func Wait(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	t := time.NewTimer(duration)
	defer stopTimer(t)

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		slog.Debug("Timer cancelled", "duration", duration)
		return ctx.Err()
	}
}

// Stops the timer and drains it.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
