package orderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tablo-hq/tablo/internal/tablo"
)

func order(id int64, status tablo.OrderStatus) tablo.Order {
	return tablo.Order{ID: id, OrderNumber: id, Status: status}
}

func scheduledOrder(id int64, status tablo.OrderStatus, pickup string) tablo.Order {
	o := order(id, status)
	t, err := time.Parse("2006-01-02T15:04", pickup)
	if err != nil {
		panic(err)
	}
	o.PickupTime = &tablo.Time{Time: t}
	return o
}

func newTestStore(t *testing.T, opts StoreOptions) *Store {
	t.Helper()
	if opts.Fetch == nil {
		opts.Fetch = func(context.Context) ([]tablo.Order, error) { return nil, nil }
	}
	st, err := NewStore(opts)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return st
}

func TestStoreReconcilesByID(t *testing.T) {
	t.Parallel()

	responses := [][]tablo.Order{
		{order(1, tablo.StatusPending), order(2, tablo.StatusPending)},
		{order(1, tablo.StatusConfirmed)},
	}
	i := 0
	st := newTestStore(t, StoreOptions{
		Fetch: func(context.Context) ([]tablo.Order, error) {
			resp := responses[i]
			i++
			return resp, nil
		},
	})

	if err := st.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh 1: %v", err)
	}
	if err := st.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh 2: %v", err)
	}

	got := st.Snapshot()
	if len(got) != 1 || got[0].ID != 1 || got[0].Status != tablo.StatusConfirmed {
		t.Fatalf("unexpected snapshot: %#v", got)
	}
}

func TestStoreRefreshFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	fail := false
	st := newTestStore(t, StoreOptions{
		Fetch: func(context.Context) ([]tablo.Order, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return []tablo.Order{order(1, tablo.StatusPending)}, nil
		},
	})

	if err := st.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	fail = true
	if err := st.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if got := st.Snapshot(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("previous snapshot lost: %#v", got)
	}
	if !st.Loaded() {
		t.Fatalf("store should still count as loaded")
	}
}

func TestNewOrderDetection(t *testing.T) {
	t.Parallel()

	fired := 0
	st := newTestStore(t, StoreOptions{
		OnNewOrders: func() { fired++ },
	})

	three := []tablo.Order{order(1, tablo.StatusPending), order(2, tablo.StatusPending), order(3, tablo.StatusPending)}
	four := append([]tablo.Order{order(4, tablo.StatusPending)}, three...)

	// The very first load never fires, regardless of how many orders it
	// returns.
	st.Replace(three)
	if fired != 0 {
		t.Fatalf("first load fired notification")
	}

	// Net growth fires exactly once.
	st.Replace(four)
	if fired != 1 {
		t.Fatalf("expected 1 notification, got %d", fired)
	}

	// No net growth, no trigger.
	st.Replace(four)
	if fired != 1 {
		t.Fatalf("same count fired notification")
	}
	st.Replace(three)
	if fired != 1 {
		t.Fatalf("shrink fired notification")
	}
}

func TestNewOrderDetectionFromEmptyLoadedStore(t *testing.T) {
	t.Parallel()

	fired := 0
	st := newTestStore(t, StoreOptions{
		OnNewOrders: func() { fired++ },
	})

	// A successful-but-empty first load leaves the prior count at zero,
	// so the next growth still counts as "first load" per the heuristic.
	st.Replace(nil)
	st.Replace([]tablo.Order{order(1, tablo.StatusPending)})
	if fired != 0 {
		t.Fatalf("growth from empty store fired notification")
	}
}

func TestKitchenSortStability(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{Less: KitchenLess})
	st.Replace([]tablo.Order{
		order(5, tablo.StatusPending),
		scheduledOrder(2, tablo.StatusPending, "2024-01-01T18:00"),
		order(1, tablo.StatusPending),
	})

	got := st.Snapshot()
	ids := [3]int64{got[0].ID, got[1].ID, got[2].ID}
	// ASAP group first in FIFO order, scheduled group after.
	if ids != [3]int64{1, 5, 2} {
		t.Fatalf("unexpected kitchen order: %v", ids)
	}
}

func TestKitchenSortScheduledByPickupTime(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{Less: KitchenLess})
	st.Replace([]tablo.Order{
		scheduledOrder(1, tablo.StatusPending, "2024-01-01T19:30"),
		scheduledOrder(9, tablo.StatusPending, "2024-01-01T18:00"),
		scheduledOrder(4, tablo.StatusPending, "2024-01-01T18:00"),
	})

	got := st.Snapshot()
	if got[0].ID != 4 || got[1].ID != 9 || got[2].ID != 1 {
		t.Fatalf("unexpected scheduled order: %d %d %d", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestLiveBoardSortNewestFirst(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{Less: LiveBoardLess})
	st.Replace([]tablo.Order{
		order(1, tablo.StatusDelivered),
		order(3, tablo.StatusPending),
		order(2, tablo.StatusPreparing),
	})

	got := st.Snapshot()
	if got[0].ID != 3 || got[1].ID != 2 || got[2].ID != 1 {
		t.Fatalf("unexpected live board order: %d %d %d", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestApplyStatusAndRevert(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{})
	st.Replace([]tablo.Order{order(1, tablo.StatusPending)})

	prev, ok := st.ApplyStatus(1, tablo.StatusPreparing)
	if !ok || prev != tablo.StatusPending {
		t.Fatalf("apply: ok=%v prev=%s", ok, prev)
	}
	if o, _ := st.Get(1); o.Status != tablo.StatusPreparing {
		t.Fatalf("status not applied: %s", o.Status)
	}

	st.Revert(1, prev)
	if o, _ := st.Get(1); o.Status != tablo.StatusPending {
		t.Fatalf("status not reverted: %s", o.Status)
	}

	if _, ok := st.ApplyStatus(99, tablo.StatusPreparing); ok {
		t.Fatalf("apply on unknown id should fail")
	}
}

func TestRestoreSnapshotDoesNotRingBell(t *testing.T) {
	t.Parallel()

	fired := 0
	st := newTestStore(t, StoreOptions{
		Less:        KitchenLess,
		OnNewOrders: func() { fired++ },
	})
	st.Replace([]tablo.Order{order(1, tablo.StatusPending), order(2, tablo.StatusPending)})

	snap := st.Snapshot()
	if _, ok := st.Remove(1); !ok {
		t.Fatalf("remove failed")
	}
	st.RestoreSnapshot(snap)

	if fired != 0 {
		t.Fatalf("restore fired new-order notification")
	}
	got := st.Snapshot()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("restore lost ordering: %#v", got)
	}
}
