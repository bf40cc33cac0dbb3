package orderboard

import (
	"strings"

	"github.com/tablo-hq/tablo/internal/tablo"
)

// Filter narrows the live order board.
type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterPending   Filter = "PENDING"
	FilterConfirmed Filter = "CONFIRMED"
	FilterPreparing Filter = "PREPARING"
	// FilterScheduled is derived, not status-based: orders with a pickup
	// time whose status is not terminal.
	FilterScheduled Filter = "SCHEDULED"
)

// ParseFilter normalizes user input to a Filter.
func ParseFilter(v string) (Filter, bool) {
	f := Filter(strings.ToUpper(strings.TrimSpace(v)))
	switch f {
	case FilterAll, FilterPending, FilterConfirmed, FilterPreparing, FilterScheduled:
		return f, true
	}
	return "", false
}

// DefaultPageSize is the live board's fixed client-side page size.
const DefaultPageSize = 9

// Board is the paginated, filterable live-order view over a store.
type Board struct {
	store    *Store
	filter   Filter
	page     int
	pageSize int
}

// NewBoard creates a board over st. The board starts on page 1 showing
// new orders first, the screen staff most often needs.
func NewBoard(st *Store, pageSize int) *Board {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Board{store: st, filter: FilterPending, page: 1, pageSize: pageSize}
}

// Filter returns the active filter.
func (b *Board) Filter() Filter { return b.filter }

// Page returns the current page number (1-based).
func (b *Board) Page() int { return b.page }

// SetFilter switches the active filter and resets pagination to page 1.
func (b *Board) SetFilter(f Filter) {
	b.filter = f
	b.page = 1
}

// SetPage navigates to a page; out-of-range values are clamped when the
// page is rendered.
func (b *Board) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	b.page = n
}

func (b *Board) matches(o tablo.Order) bool {
	switch b.filter {
	case FilterAll:
		return true
	case FilterScheduled:
		return o.Scheduled() && !o.Status.Terminal()
	default:
		return o.Status == tablo.OrderStatus(b.filter)
	}
}

// Visible returns the current page of the filtered set, plus the page
// actually shown and the total page count.
func (b *Board) Visible() (orders []tablo.Order, page, totalPages int) {
	var filtered []tablo.Order
	for _, o := range b.store.Snapshot() {
		if b.matches(o) {
			filtered = append(filtered, o)
		}
	}

	totalPages = (len(filtered) + b.pageSize - 1) / b.pageSize
	if totalPages == 0 {
		return nil, 1, 0
	}

	page = b.page
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * b.pageSize
	end := min(start+b.pageSize, len(filtered))
	return filtered[start:end], page, totalPages
}
