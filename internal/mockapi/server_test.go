package mockapi

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tablo-hq/tablo/internal/tablo"
)

func newTestServer(t *testing.T) (*Server, *tablo.Client) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	s := New(log)
	if err := s.SeedDemo(time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	c, err := tablo.New(tablo.Options{BaseURL: srv.URL, AccessToken: DemoToken, Logger: log})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return s, c
}

func TestLoginAndMe(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t)
	c.SetAccessToken("")

	resp, err := c.Login(context.Background(), DemoEmail, DemoPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	c.SetAccessToken(resp.Token)

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if user.RestaurantID != 1 || user.Email != DemoEmail {
		t.Fatalf("unexpected user: %#v", user)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t)
	c.SetAccessToken("")

	if _, err := c.Login(context.Background(), DemoEmail, "wrong"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRequiresBearerToken(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t)
	c.SetAccessToken("not-the-token")

	_, err := c.KitchenOrders(context.Background())
	var httpErr *tablo.HTTPError
	if !errors.As(err, &httpErr) || !httpErr.IsUnauthorized() {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestKitchenExcludesTerminalOrders(t *testing.T) {
	t.Parallel()

	s, c := newTestServer(t)
	s.InjectOrder(nil, 5)

	all, err := c.Orders(context.Background(), 1)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}

	// Walk order 2 (PREPARING) to DELIVERED; it must drop off the
	// kitchen list but stay on the full list.
	for _, st := range []tablo.OrderStatus{tablo.StatusReadyForPickup, tablo.StatusDelivered} {
		if _, err := c.UpdateOrderStatus(context.Background(), 2, st); err != nil {
			t.Fatalf("update to %s: %v", st, err)
		}
	}

	kitchen, err := c.KitchenOrders(context.Background())
	if err != nil {
		t.Fatalf("kitchen: %v", err)
	}
	if len(kitchen) != len(all)-1 {
		t.Fatalf("kitchen=%d all=%d", len(kitchen), len(all))
	}
	for _, o := range kitchen {
		if o.ID == 2 {
			t.Fatalf("delivered order still on kitchen list")
		}
	}
}

func TestStatusTransitionValidation(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t)

	// Order 1 is PENDING; DELIVERED is not reachable from there.
	_, err := c.UpdateOrderStatus(context.Background(), 1, tablo.StatusDelivered)
	var httpErr *tablo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 422 {
		t.Fatalf("expected 422, got %v", err)
	}

	// Fast path PENDING -> PREPARING is allowed.
	updated, err := c.UpdateOrderStatus(context.Background(), 1, tablo.StatusPreparing)
	if err != nil {
		t.Fatalf("fast path: %v", err)
	}
	if updated.Status != tablo.StatusPreparing {
		t.Fatalf("status=%s", updated.Status)
	}
}

func TestReservationLifecycle(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t)

	res, err := c.Reservations(context.Background())
	if err != nil {
		t.Fatalf("reservations: %v", err)
	}
	if len(res) != 1 || res[0].Status != tablo.ReservationPending {
		t.Fatalf("unexpected reservations: %#v", res)
	}

	updated, err := c.UpdateReservationStatus(context.Background(), res[0].ID, tablo.ReservationConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.Status != tablo.ReservationConfirmed {
		t.Fatalf("status=%s", updated.Status)
	}

	if _, err := c.UpdateReservationStatus(context.Background(), res[0].ID, tablo.ReservationPending); err == nil {
		t.Fatalf("PENDING is not a staff-settable status")
	}
}

func TestMenuAvailabilityToggle(t *testing.T) {
	t.Parallel()

	_, c := newTestServer(t)

	item, err := c.SetMenuItemAvailability(context.Background(), 3, true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !item.Available {
		t.Fatalf("item still unavailable")
	}
}

func TestSeedValidation(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	s := New(log)

	err := s.Seed([]tablo.Order{
		{ID: 1, Status: "EATEN"},
		{ID: 1, Status: tablo.StatusPending, Items: []tablo.LineItem{{Name: "x", Quantity: 0}}},
	}, []tablo.Reservation{
		{ID: 0, PartySize: 0},
	}, nil)
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"unknown status", "duplicate", "quantity", "party size", "id must be positive"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q missing %q", msg, want)
		}
	}
}
