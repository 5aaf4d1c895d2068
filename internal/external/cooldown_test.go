package external

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock advances only when Sleep is called or Advance is used.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 12, 26, 9, 30, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Advance(d)
	return nil
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCooldown_FirstCallImmediate(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(2*time.Second, clock)
	start := clock.Now()

	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !c.LastCall().Equal(start) {
		t.Fatalf("first call should dispatch immediately, stamped %v want %v", c.LastCall(), start)
	}
}

func TestCooldown_SpacesConsecutiveCalls(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(2*time.Second, clock)
	ctx := context.Background()

	var dispatches []time.Time
	gaps := []time.Duration{0, 500 * time.Millisecond, 1999 * time.Millisecond, 10 * time.Millisecond}
	for _, gap := range gaps {
		clock.Advance(gap)
		if err := c.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
		dispatches = append(dispatches, clock.Now())
	}

	for i := 1; i < len(dispatches); i++ {
		if d := dispatches[i].Sub(dispatches[i-1]); d < 2*time.Second {
			t.Fatalf("dispatch %d only %v after previous, want >= 2s", i, d)
		}
	}
}

func TestCooldown_NoWaitAfterIdle(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(2*time.Second, clock)
	ctx := context.Background()

	_ = c.Wait(ctx)
	clock.Advance(5 * time.Second)
	before := clock.Now()
	_ = c.Wait(ctx)

	if !clock.Now().Equal(before) {
		t.Fatalf("expected no sleep after idle period, clock moved by %v", clock.Now().Sub(before))
	}
}

func TestCooldown_CancelledWaitKeepsStamp(t *testing.T) {
	clock := newFakeClock()
	c := NewCooldown(2*time.Second, clock)

	_ = c.Wait(context.Background())
	first := c.LastCall()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Wait(ctx); err == nil {
		t.Fatal("expected cancelled wait to fail")
	}
	if !c.LastCall().Equal(first) {
		t.Fatalf("cancelled wait must not restamp, got %v want %v", c.LastCall(), first)
	}
}

func TestCooldown_RealClock(t *testing.T) {
	c := NewCooldown(50*time.Millisecond, nil)
	ctx := context.Background()

	_ = c.Wait(ctx)
	first := time.Now()
	_ = c.Wait(ctx)
	if d := time.Since(first); d < 40*time.Millisecond {
		t.Fatalf("expected real sleep of ~50ms, got %v", d)
	}
}
