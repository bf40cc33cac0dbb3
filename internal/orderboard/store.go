// Package orderboard maintains the in-memory order state behind the live
// order board and the kitchen display: a polled snapshot of a tenant's
// orders, optimistic status transitions with rollback, and new-order
// detection.
package orderboard

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tablo-hq/tablo/internal/tablo"
)

// FetchFunc loads the current order list from the backend.
type FetchFunc func(ctx context.Context) ([]tablo.Order, error)

// LessFunc is the sort policy a view imposes on its snapshot.
type LessFunc func(a, b tablo.Order) bool

// LiveBoardLess sorts most recent first (descending id), independent of
// status.
func LiveBoardLess(a, b tablo.Order) bool { return a.ID > b.ID }

// KitchenLess sorts by kitchen urgency: ASAP orders first in arrival
// order (ascending id), then scheduled orders by ascending pickup time,
// falling back to ascending id. Putting the ASAP group first matches the
// shipped behavior of the kitchen screen.
func KitchenLess(a, b tablo.Order) bool {
	as, bs := a.Scheduled(), b.Scheduled()
	if as != bs {
		return !as
	}
	if as && bs && !a.PickupTime.Equal(b.PickupTime.Time) {
		return a.PickupTime.Before(b.PickupTime.Time)
	}
	return a.ID < b.ID
}

// StoreOptions configures a Store.
type StoreOptions struct {
	Fetch FetchFunc
	Less  LessFunc

	// OnNewOrders fires once per refresh that observes net growth of the
	// order count, except on the very first load. It is a heuristic: a
	// simultaneous arrival and completion cancel out and go undetected.
	OnNewOrders func()

	// OnUpdate fires after every installed snapshot, so a view can
	// re-render without watching the clock itself.
	OnUpdate func()

	Logger *logrus.Logger
}

// Store owns the in-memory order collection for one mounted view. It is
// destroyed on logout or tenant switch and recreated on the next poll.
type Store struct {
	fetch    FetchFunc
	less     LessFunc
	onNew    func()
	onUpdate func()
	log      *logrus.Logger

	mu        sync.Mutex
	orders    []tablo.Order
	prevCount int
	loaded    bool
}

// NewStore creates a store. Fetch is required; Less defaults to the live
// board policy.
func NewStore(opts StoreOptions) (*Store, error) {
	if opts.Fetch == nil {
		return nil, errors.New("orderboard: Fetch is required")
	}
	less := opts.Less
	if less == nil {
		less = LiveBoardLess
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		fetch:    opts.Fetch,
		less:     less,
		onNew:    opts.OnNewOrders,
		onUpdate: opts.OnUpdate,
		log:      log,
	}, nil
}

// Refresh fetches the full order list and replaces the store's contents.
// On failure the previous snapshot stays intact and the error is returned
// for the caller to surface or swallow per its own policy.
func (s *Store) Refresh(ctx context.Context) error {
	orders, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.Replace(orders)
	return nil
}

// Replace installs a freshly fetched order list: sorts it per the view's
// policy, runs new-order detection against the previous count, and makes
// it the current snapshot.
func (s *Store) Replace(orders []tablo.Order) {
	next := make([]tablo.Order, len(orders))
	copy(next, orders)
	sort.SliceStable(next, func(i, j int) bool { return s.less(next[i], next[j]) })

	s.mu.Lock()
	notify := s.onNew != nil && s.prevCount > 0 && len(next) > s.prevCount
	s.orders = next
	s.prevCount = len(next)
	s.loaded = true
	s.mu.Unlock()

	if notify {
		s.onNew()
	}
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

// Loaded reports whether at least one refresh has succeeded.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Len returns the number of orders in the current snapshot.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Snapshot returns a copy of the current order list. The copy is the
// immutable pre-state a transition captures before mutating anything.
func (s *Store) Snapshot() []tablo.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tablo.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get finds an order by id.
func (s *Store) Get(orderID int64) (tablo.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return tablo.Order{}, false
}

// ApplyStatus optimistically mutates the order matching orderID,
// independent of the next poll tick. It returns the prior status so a
// failed server call can revert.
func (s *Store) ApplyStatus(orderID int64, status tablo.OrderStatus) (tablo.OrderStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			prev := s.orders[i].Status
			s.orders[i].Status = status
			return prev, true
		}
	}
	return "", false
}

// Revert undoes an optimistic status change after a failed server call.
func (s *Store) Revert(orderID int64, previous tablo.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = previous
			return
		}
	}
}

// Remove drops an order from the visible set, the optimistic path for
// boards that only show in-flight work.
func (s *Store) Remove(orderID int64) (tablo.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return o, true
		}
	}
	return tablo.Order{}, false
}

// RestoreSnapshot replaces the current contents with a snapshot captured
// before an optimistic mutation. It deliberately skips new-order
// detection and leaves the last refresh count alone, so an error-path
// restore can never ring the new-order bell.
func (s *Store) RestoreSnapshot(snapshot []tablo.Order) {
	next := make([]tablo.Order, len(snapshot))
	copy(next, snapshot)

	s.mu.Lock()
	s.orders = next
	s.mu.Unlock()
}
