package tablo

import (
	"encoding/json"
	"strings"
	"time"
)

// OrderStatus is the server-side order lifecycle state. Transitions are
// monotonic along the forward path under normal operation; the client
// trusts the server to enforce that.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

var statusRank = map[OrderStatus]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusReadyForPickup: 3,
	StatusDelivered:      4,
	StatusCancelled:      5,
}

// Known reports whether s is one of the documented statuses.
func (s OrderStatus) Known() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no transition is defined out of s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// AtLeastReady reports whether s is READY_FOR_PICKUP or later on the
// forward path. Boards that only show in-flight orders drop an order the
// moment it reaches such a status.
func (s OrderStatus) AtLeastReady() bool {
	return s == StatusReadyForPickup || s == StatusDelivered || s == StatusCancelled
}

// ParseOrderStatus normalizes user input like "ready_for_pickup" or
// "Preparing" to an OrderStatus.
func ParseOrderStatus(v string) (OrderStatus, bool) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Known()
}

// Time is a timestamp that tolerates the backend's datetime variants:
// full RFC 3339, and local datetimes with or without seconds.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// LineItem is one line of an order. SelectedOptions arrives as a
// JSON-encoded string of human-readable choice labels.
type LineItem struct {
	MenuItemID      int64  `json:"menuItemId"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	SelectedOptions string `json:"selectedOptions,omitempty"`
}

// Options decodes SelectedOptions. A malformed payload yields no options;
// it must never take a view down.
func (li LineItem) Options() []string {
	if strings.TrimSpace(li.SelectedOptions) == "" {
		return nil
	}
	var opts []string
	if err := json.Unmarshal([]byte(li.SelectedOptions), &opts); err != nil {
		return nil
	}
	return opts
}

// Order is one customer order for a restaurant tenant. Everything but
// Status is read-only once created.
type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     int64       `json:"orderNumber"`
	Status          OrderStatus `json:"status"`
	Items           []LineItem  `json:"items"`
	TotalPrice      float64     `json:"totalPrice"`
	TableNumber     *int        `json:"tableNumber,omitempty"`
	PickupTime      *Time       `json:"pickupTime,omitempty"`
	PaymentIntentID string      `json:"paymentIntentId,omitempty"`
}

// Scheduled reports whether the order has a requested pickup time.
// Orders without one are ASAP.
func (o Order) Scheduled() bool {
	return o.PickupTime != nil && !o.PickupTime.IsZero()
}

// Paid reports whether an online payment was captured for the order.
func (o Order) Paid() bool {
	return o.PaymentIntentID != ""
}

// ReservationStatus mirrors OrderStatus for the reservation lifecycle.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is created by the customer-facing system and mutated by
// staff accept/cancel; it is never deleted.
type Reservation struct {
	ID              int64             `json:"id"`
	Status          ReservationStatus `json:"status"`
	ReservationTime *Time             `json:"reservationTime,omitempty"`
	CustomerName    string            `json:"customerName"`
	CustomerEmail   string            `json:"customerEmail,omitempty"`
	CustomerPhone   string            `json:"customerPhone,omitempty"`
	PartySize       int               `json:"partySize"`
}

// MenuItem is the read-mostly menu row the CLI lists and toggles.
type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

// User is the authenticated staff profile.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role,omitempty"`
	RestaurantID   int64  `json:"restaurantId"`
	RestaurantName string `json:"restaurantName,omitempty"`
}

// LoginResponse is the body of a successful credential exchange.
type LoginResponse struct {
	Token string `json:"token"`
}
