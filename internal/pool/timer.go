// Package pool reuses timers for the delays that sit between instrument operations.
package pool

import (
	"context"
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a timer armed for d, taken from the pool when possible.
//
// Return the timer with PutTimer once it's no longer needed.
func GetTimer(d time.Duration) *time.Timer {
	if v := timerPool.Get(); v != nil {
		t, _ := v.(*time.Timer)
		if t.Reset(d) {
			select {
			case <-t.C:
			default:
			}
		}

		return t
	}

	return time.NewTimer(d)
}

// PutTimer stops t and returns it to the pool.
//
// t cannot be accessed after returning to the pool.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}

// Sleep blocks for d or until ctx is done, whichever comes first.
//
// A non-positive d returns immediately with ctx.Err().
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := GetTimer(d)
	defer PutTimer(t)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
