package orderboard

import (
	"testing"

	"github.com/tablo-hq/tablo/internal/tablo"
)

func TestBoardFilterResetsPagination(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{Less: LiveBoardLess})
	orders := make([]tablo.Order, 0, 20)
	for i := int64(1); i <= 20; i++ {
		orders = append(orders, order(i, tablo.StatusPending))
	}
	st.Replace(orders)

	b := NewBoard(st, 9)
	b.SetFilter(FilterAll)
	b.SetPage(2)

	visible, page, total := b.Visible()
	if page != 2 || total != 3 || len(visible) != 9 {
		t.Fatalf("page=%d total=%d len=%d", page, total, len(visible))
	}

	b.SetFilter(FilterPending)
	if b.Page() != 1 {
		t.Fatalf("filter change did not reset page, page=%d", b.Page())
	}
	visible, page, _ = b.Visible()
	if page != 1 || len(visible) != 9 {
		t.Fatalf("after filter change: page=%d len=%d", page, len(visible))
	}
	// Descending id: page 1 starts at the most recent order.
	if visible[0].ID != 20 {
		t.Fatalf("expected id 20 first, got %d", visible[0].ID)
	}
}

func TestBoardScheduledFilterIsDerived(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{Less: LiveBoardLess})
	st.Replace([]tablo.Order{
		scheduledOrder(1, tablo.StatusPending, "2024-01-01T18:00"),
		scheduledOrder(2, tablo.StatusDelivered, "2024-01-01T18:30"),
		scheduledOrder(3, tablo.StatusCancelled, "2024-01-01T19:00"),
		order(4, tablo.StatusPreparing),
	})

	b := NewBoard(st, 9)
	b.SetFilter(FilterScheduled)

	visible, _, _ := b.Visible()
	if len(visible) != 1 || visible[0].ID != 1 {
		t.Fatalf("scheduled filter: %#v", visible)
	}
}

func TestBoardClampsPageToRange(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{Less: LiveBoardLess})
	st.Replace([]tablo.Order{order(1, tablo.StatusPending), order(2, tablo.StatusPending)})

	b := NewBoard(st, 9)
	b.SetFilter(FilterAll)
	b.SetPage(7)

	visible, page, total := b.Visible()
	if page != 1 || total != 1 || len(visible) != 2 {
		t.Fatalf("page=%d total=%d len=%d", page, total, len(visible))
	}
}

func TestBoardEmptyFilter(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, StoreOptions{Less: LiveBoardLess})
	st.Replace([]tablo.Order{order(1, tablo.StatusDelivered)})

	b := NewBoard(st, 9)
	b.SetFilter(FilterPreparing)

	visible, page, total := b.Visible()
	if visible != nil || page != 1 || total != 0 {
		t.Fatalf("expected empty page: %#v page=%d total=%d", visible, page, total)
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	if f, ok := ParseFilter("scheduled"); !ok || f != FilterScheduled {
		t.Fatalf("parse scheduled: %v %v", f, ok)
	}
	if _, ok := ParseFilter("READY_FOR_PICKUP"); ok {
		t.Fatalf("READY_FOR_PICKUP is not a board filter")
	}
}
