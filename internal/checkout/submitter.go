// Package checkout turns a cart snapshot into an order on the backend.
// Submitters never touch the cart: on success the caller clears it, on any
// failure the cart is left whole so the user can retry. There is no
// automatic retry and no idempotency key — if part of a per-line attempt
// landed before the failure, retrying will duplicate those rows
// server-side. Known gap, inherited from the system this replaces.
package checkout

import (
	"context"
	"errors"

	"github.com/example/storefront/internal/cart"
)

var ErrEmptyCart = errors.New("nothing to submit")

// Submitter sends a cart snapshot to the backend. A nil return means the
// whole order was acknowledged and the caller should clear the cart.
type Submitter interface {
	Submit(ctx context.Context, items []cart.LineItem) error
}

// Error describes a failed submission. FailedItem is set when one
// specific line was rejected (per-line contract); the lines after it were
// never attempted.
type Error struct {
	Reason     string
	FailedItem *cart.LineItem
	Err        error
}

func (e *Error) Error() string {
	if e.FailedItem != nil {
		return "submit order: " + e.Reason + " (item " + e.FailedItem.Product.Name + ")"
	}
	return "submit order: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }
