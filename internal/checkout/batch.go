package checkout

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/graphql"
)

const placeOrderMutation = `mutation PlaceOrder($items: [OrderItem!]!) { placeOrder(items: $items) }`

// BatchSubmitter is the primary submission contract: the whole cart rides
// one placeOrder mutation and the backend answers a single boolean for the
// batch.
type BatchSubmitter struct {
	gql *graphql.Client
}

func NewBatchSubmitter(endpoint string, httpClient *http.Client) *BatchSubmitter {
	return &BatchSubmitter{gql: graphql.NewClient(endpoint, httpClient)}
}

func (s *BatchSubmitter) Submit(ctx context.Context, items []cart.LineItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}

	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		opts, err := json.Marshal(item.Options)
		if err != nil {
			return &Error{Reason: "encode options", Err: err}
		}
		payload = append(payload, map[string]any{
			"productId": item.Product.ID,
			"quantity":  item.Quantity,
			"options":   string(opts),
		})
	}

	var out struct {
		PlaceOrder bool `json:"placeOrder"`
	}
	if err := s.gql.Do(ctx, placeOrderMutation, map[string]any{"items": payload}, &out); err != nil {
		return &Error{Reason: err.Error(), Err: err}
	}
	if !out.PlaceOrder {
		return &Error{Reason: "order rejected by backend"}
	}
	return nil
}
