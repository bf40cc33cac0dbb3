package orderboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the refresh cadence when a view does not pick its
// own. The kitchen screen uses 10s, the live board 15s.
const DefaultInterval = 15 * time.Second

// Poller drives periodic refreshes of one store. Exactly one loop may be
// active per mounted view; Stop must be called when the view is torn
// down, or the orphaned timer keeps writing to a detached store.
type Poller struct {
	store    *Store
	interval time.Duration
	log      *logrus.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	failures int
}

// NewPoller creates a poller for st. Interval defaults to
// DefaultInterval when non-positive.
func NewPoller(st *Store, interval time.Duration, log *logrus.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Poller{store: st, interval: interval, log: log}
}

// Start performs an immediate refresh, then keeps refreshing every
// interval until Stop is called or ctx is cancelled. The initial
// refresh's error is returned so the view can surface "could not load";
// the background loop starts either way and background failures are only
// logged, never surfaced.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return errors.New("orderboard: poller already started")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	initialErr := p.store.Refresh(loopCtx)

	go p.loop(loopCtx)
	return initialErr
}

// Stop cancels the polling loop and waits for it to exit. Safe to call
// more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := p.store.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.failures++
			p.log.WithError(err).WithField("consecutive", p.failures).
				Warn("background order refresh failed; keeping previous snapshot")
			continue
		}
		p.failures = 0
	}
}
