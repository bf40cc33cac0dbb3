package orderboard

import (
	"context"
	"fmt"

	"github.com/tablo-hq/tablo/internal/tablo"
)

// UpdateFunc sends the status-change command to the server and returns
// the authoritative order.
type UpdateFunc func(ctx context.Context, orderID int64, status tablo.OrderStatus) (tablo.Order, error)

// Mode selects how a view reflects an optimistic transition.
type Mode int

const (
	// UpdateInPlace mutates the order's status in the visible set; used
	// by boards that show all statuses.
	UpdateInPlace Mode = iota
	// RemoveFromView drops the card the moment staff acts on it, without
	// waiting for server confirmation; used by boards that only show
	// in-flight work (the kitchen display).
	RemoveFromView
)

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Store  *Store
	Update UpdateFunc
	Mode   Mode

	// OnFailure fires exactly once per failed transition, after local
	// state has been rolled back.
	OnFailure func(orderID int64, err error)
}

// Controller drives the order status state machine with optimistic local
// updates. Each transition captures an immutable pre-state snapshot,
// applies the mutation, and restores the snapshot if the server rejects
// the command; the error path never re-fetches.
// Transitions on different orders are independent; two staff members
// racing on the same order are resolved by whichever response lands
// last, with the next poll as the consistency backstop.
type Controller struct {
	store     *Store
	update    UpdateFunc
	mode      Mode
	onFailure func(orderID int64, err error)
}

// NewController creates a controller over st.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Store == nil || opts.Update == nil {
		return nil, fmt.Errorf("orderboard: Store and Update are required")
	}
	return &Controller{
		store:     opts.Store,
		update:    opts.Update,
		mode:      opts.Mode,
		onFailure: opts.OnFailure,
	}, nil
}

// Transition issues a status-update command for orderID, applying the
// optimistic mutation first and reconciling against the server's answer.
func (c *Controller) Transition(ctx context.Context, orderID int64, target tablo.OrderStatus) error {
	switch c.mode {
	case RemoveFromView:
		return c.transitionRemove(ctx, orderID, target)
	default:
		return c.transitionInPlace(ctx, orderID, target)
	}
}

func (c *Controller) transitionInPlace(ctx context.Context, orderID int64, target tablo.OrderStatus) error {
	prev, ok := c.store.ApplyStatus(orderID, target)
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}

	updated, err := c.update(ctx, orderID, target)
	if err != nil {
		c.store.Revert(orderID, prev)
		c.fail(orderID, err)
		return err
	}

	// The server's answer is authoritative; the next poll would reconcile
	// it anyway, but applying it now keeps the board exact.
	if updated.Status != "" && updated.Status != target {
		c.store.ApplyStatus(orderID, updated.Status)
	}
	return nil
}

func (c *Controller) transitionRemove(ctx context.Context, orderID int64, target tablo.OrderStatus) error {
	snapshot := c.store.Snapshot()
	if _, ok := c.store.Remove(orderID); !ok {
		return fmt.Errorf("order %d not found", orderID)
	}

	if _, err := c.update(ctx, orderID, target); err != nil {
		c.store.RestoreSnapshot(snapshot)
		c.fail(orderID, err)
		return err
	}
	return nil
}

func (c *Controller) fail(orderID int64, err error) {
	if c.onFailure != nil {
		c.onFailure(orderID, err)
	}
}
