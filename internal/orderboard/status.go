package orderboard

import "github.com/tablo-hq/tablo/internal/tablo"

// CanTransition reports whether the documented state machine allows
// from → to. The client never blocks on this (the server enforces it);
// the mock backend and input validation use it.
//
//	PENDING → CONFIRMED → PREPARING → READY_FOR_PICKUP → DELIVERED
//	PENDING → PREPARING              (fast path, skips explicit confirm)
//	any non-terminal → CANCELLED
func CanTransition(from, to tablo.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == tablo.StatusCancelled {
		return true
	}
	switch from {
	case tablo.StatusPending:
		return to == tablo.StatusConfirmed || to == tablo.StatusPreparing
	case tablo.StatusConfirmed:
		return to == tablo.StatusPreparing
	case tablo.StatusPreparing:
		return to == tablo.StatusReadyForPickup
	case tablo.StatusReadyForPickup:
		return to == tablo.StatusDelivered
	}
	return false
}

// KitchenAction returns the kitchen display's primary action for an
// order in the given status.
func KitchenAction(s tablo.OrderStatus) (target tablo.OrderStatus, label string, ok bool) {
	switch s {
	case tablo.StatusPending:
		return tablo.StatusPreparing, "accept & prepare", true
	case tablo.StatusConfirmed:
		return tablo.StatusPreparing, "start preparing", true
	case tablo.StatusPreparing:
		return tablo.StatusReadyForPickup, "mark as ready", true
	}
	return "", "", false
}
