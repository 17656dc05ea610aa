package order

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/storefront/internal/catalog"
)

const EventOrderPlaced = "OrderPlaced"

// Event is the envelope published to the event stream.
type Event struct {
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEvent(eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return Event{Type: eventType, Data: raw, OccurredAt: time.Now().UTC()}, nil
}

// PlacedItem is one order line as recorded by the backend: the unit price
// comes from the price table, never from the client.
type PlacedItem struct {
	ProductID int64         `json:"product_id"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	Options   string        `json:"options,omitempty"`
	UnitPrice catalog.Money `json:"unit_price"`
}

type Placed struct {
	OrderID  int64         `json:"order_id"`
	Items    []PlacedItem  `json:"items"`
	Total    catalog.Money `json:"total"`
	PlacedAt time.Time     `json:"placed_at"`
}
