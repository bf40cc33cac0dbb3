package mockapi

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/tablo-hq/tablo/internal/tablo"
)

// Seed replaces the mock state. All validation problems are reported at
// once rather than one per run.
func (s *Server) Seed(orders []tablo.Order, reservations []tablo.Reservation, menu []tablo.MenuItem) error {
	var errs *multierror.Error

	seenOrders := map[int64]bool{}
	for i, o := range orders {
		if o.ID <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("order %d: id must be positive", i))
		}
		if seenOrders[o.ID] {
			errs = multierror.Append(errs, fmt.Errorf("order id %d: duplicate", o.ID))
		}
		seenOrders[o.ID] = true
		if !o.Status.Known() {
			errs = multierror.Append(errs, fmt.Errorf("order id %d: unknown status %q", o.ID, o.Status))
		}
		for _, li := range o.Items {
			if li.Quantity <= 0 {
				errs = multierror.Append(errs, fmt.Errorf("order id %d: item %q: quantity must be positive", o.ID, li.Name))
			}
		}
	}

	seenRes := map[int64]bool{}
	for i, r := range reservations {
		if r.ID <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("reservation %d: id must be positive", i))
		}
		if seenRes[r.ID] {
			errs = multierror.Append(errs, fmt.Errorf("reservation id %d: duplicate", r.ID))
		}
		seenRes[r.ID] = true
		if r.PartySize <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("reservation id %d: party size must be positive", r.ID))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = map[int64]*tablo.Order{}
	s.reservations = map[int64]*tablo.Reservation{}
	s.menu = map[int64]*tablo.MenuItem{}
	for i := range orders {
		o := orders[i]
		s.orders[o.ID] = &o
		if o.ID >= s.nextOrderID {
			s.nextOrderID = o.ID + 1
		}
	}
	for i := range reservations {
		r := reservations[i]
		s.reservations[r.ID] = &r
	}
	for i := range menu {
		m := menu[i]
		s.menu[m.ID] = &m
	}
	return nil
}

// SeedDemo loads a small plausible dataset: a couple of in-flight
// orders, one scheduled pickup, a pending reservation, a short menu.
func (s *Server) SeedDemo(now time.Time) error {
	pickup := tablo.Time{Time: now.Add(45 * time.Minute).Truncate(time.Minute)}
	resAt := tablo.Time{Time: now.Add(3 * time.Hour).Truncate(time.Minute)}
	table := 4

	orders := []tablo.Order{
		{
			ID: 1, OrderNumber: 101, Status: tablo.StatusPending, TotalPrice: 23.0,
			Items: []tablo.LineItem{
				{MenuItemID: 1, Name: "Margherita", Quantity: 2, SelectedOptions: `["extra cheese"]`},
			},
			TableNumber: &table,
		},
		{
			ID: 2, OrderNumber: 102, Status: tablo.StatusPreparing, TotalPrice: 9.5,
			Items: []tablo.LineItem{
				{MenuItemID: 3, Name: "Tiramisu", Quantity: 1},
			},
			PaymentIntentID: "pi_demo_1",
		},
		{
			ID: 3, OrderNumber: 103, Status: tablo.StatusConfirmed, TotalPrice: 31.0,
			Items: []tablo.LineItem{
				{MenuItemID: 2, Name: "Quattro Stagioni", Quantity: 2},
			},
			PickupTime: &pickup,
		},
	}
	reservations := []tablo.Reservation{
		{ID: 1, Status: tablo.ReservationPending, ReservationTime: &resAt, CustomerName: "Anna K.", PartySize: 4, CustomerPhone: "+36 1 234 5678"},
	}
	menu := []tablo.MenuItem{
		{ID: 1, Name: "Margherita", Price: 10.5, Available: true},
		{ID: 2, Name: "Quattro Stagioni", Price: 14.0, Available: true},
		{ID: 3, Name: "Tiramisu", Price: 9.5, Available: false},
	}
	return s.Seed(orders, reservations, menu)
}
