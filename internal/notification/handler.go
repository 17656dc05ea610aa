package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/order"
)

// Sender is satisfied by the email service.
type Sender interface {
	SendOrderConfirmation(to string, placed order.Placed) error
}

// Handler turns OrderPlaced events into confirmation mail for the shop's
// orders inbox. Other event types are ignored.
type Handler struct {
	sender Sender
	inbox  string
}

func NewHandler(sender Sender, inbox string) *Handler {
	return &Handler{sender: sender, inbox: inbox}
}

// HandleEvent processes one event from the stream.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.Type != order.EventOrderPlaced {
		return nil
	}

	var placed order.Placed
	if err := json.Unmarshal(event.Data, &placed); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	if err := h.sender.SendOrderConfirmation(h.inbox, placed); err != nil {
		log.Printf("[Notifier] Failed to send confirmation for order %d: %v", placed.OrderID, err)
		return err
	}

	log.Printf("[Notifier] Confirmation for order %d sent to %s", placed.OrderID, h.inbox)
	return nil
}
