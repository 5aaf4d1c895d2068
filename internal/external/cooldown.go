package external

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time so the cooldown can be driven by tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Cooldown enforces a minimum spacing between successive provider calls.
// One instance is shared by every caller regardless of symbol.
type Cooldown struct {
	interval time.Duration
	clock    Clock

	mu       sync.Mutex
	lastCall time.Time
}

func NewCooldown(interval time.Duration, clock Clock) *Cooldown {
	if clock == nil {
		clock = realClock{}
	}
	return &Cooldown{interval: interval, clock: clock}
}

// Wait blocks until the cooldown has elapsed since the previous dispatch,
// then stamps the current time as the new dispatch time. The caller must
// send its request immediately after Wait returns nil. A cancelled wait
// leaves the previous stamp in place.
func (c *Cooldown) Wait(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.lastCall.IsZero() {
		elapsed := c.clock.Now().Sub(c.lastCall)
		if remaining := c.interval - elapsed; remaining > 0 {
			if err := c.clock.Sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}

	c.lastCall = c.clock.Now()
	return nil
}

// LastCall returns the most recent dispatch time, zero if none yet.
func (c *Cooldown) LastCall() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCall
}
