package orderboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tablo-hq/tablo/internal/tablo"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestPollerRefreshesImmediatelyThenTicks(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	st := newTestStore(t, StoreOptions{
		Fetch: func(context.Context) ([]tablo.Order, error) {
			calls.Add(1)
			return []tablo.Order{order(1, tablo.StatusPending)}, nil
		},
	})

	p := NewPoller(st, 20*time.Millisecond, quietLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if calls.Load() < 1 {
		t.Fatalf("no immediate refresh")
	}

	time.Sleep(150 * time.Millisecond)
	p.Stop()

	after := calls.Load()
	if after < 3 {
		t.Fatalf("expected repeated refreshes, got %d", after)
	}

	// No stale timer keeps writing after Stop returns.
	time.Sleep(80 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("poller still running after Stop")
	}
}

func TestPollerSurvivesBackgroundFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	st := newTestStore(t, StoreOptions{
		Fetch: func(context.Context) ([]tablo.Order, error) {
			n := calls.Add(1)
			if n > 1 {
				return nil, errors.New("backend down")
			}
			return []tablo.Order{order(1, tablo.StatusPending)}, nil
		},
	})

	p := NewPoller(st, 20*time.Millisecond, quietLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(120 * time.Millisecond)
	p.Stop()

	if calls.Load() < 3 {
		t.Fatalf("loop stopped on background failure after %d calls", calls.Load())
	}
	if got := st.Snapshot(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("snapshot lost on background failure: %#v", got)
	}
}

func TestPollerReportsInitialLoadFailure(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{
		Fetch: func(context.Context) ([]tablo.Order, error) {
			return nil, errors.New("backend down")
		},
	})

	p := NewPoller(st, time.Hour, quietLogger())
	if err := p.Start(context.Background()); err == nil {
		t.Fatalf("expected initial refresh error")
	}
	defer p.Stop()

	if st.Loaded() {
		t.Fatalf("store marked loaded after failed initial refresh")
	}
}

func TestPollerStartTwice(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{})
	p := NewPoller(st, time.Hour, quietLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer p.Stop()

	if err := p.Start(context.Background()); err == nil {
		t.Fatalf("second Start must fail while running")
	}
}

func TestPollerStopIdempotent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{})
	p := NewPoller(st, time.Hour, quietLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	p.Stop()
	p.Stop()
}
