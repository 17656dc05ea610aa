package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/example/storefront/internal/graphql"
	"github.com/example/storefront/internal/order"
	"github.com/example/storefront/internal/store"
)

// Handlers wires the storefront schema's top-level fields to the store and
// the order service.
type Handlers struct {
	store  store.Store
	orders *order.Service
}

func NewHandlers(st store.Store, orders *order.Service) *Handlers {
	return &Handlers{store: st, orders: orders}
}

// GraphQL returns the handler serving the query transport.
func (h *Handlers) GraphQL() http.Handler {
	gh := graphql.NewHandler()
	gh.Resolve("products", h.resolveProducts)
	gh.Resolve("product", h.resolveProduct)
	gh.Resolve("categories", h.resolveCategories)
	gh.Resolve("placeOrder", h.resolvePlaceOrder)
	return gh
}

func (h *Handlers) resolveProducts(ctx context.Context, vars map[string]any) (any, error) {
	filter, _ := vars["filter"].(string)
	return h.store.Products(ctx, filter)
}

func (h *Handlers) resolveProduct(ctx context.Context, vars map[string]any) (any, error) {
	id, err := intVar(vars, "id")
	if err != nil {
		return nil, err
	}
	return h.store.Product(ctx, id)
}

func (h *Handlers) resolveCategories(ctx context.Context, vars map[string]any) (any, error) {
	return h.store.Categories(ctx)
}

// resolvePlaceOrder answers a bare boolean, the shape the batch submitter
// expects.
func (h *Handlers) resolvePlaceOrder(ctx context.Context, vars map[string]any) (any, error) {
	rawItems, ok := vars["items"].([]any)
	if !ok {
		return nil, fmt.Errorf("placeOrder requires an items list")
	}

	items := make([]store.OrderItem, 0, len(rawItems))
	for i, raw := range rawItems {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("items[%d] is not an object", i)
		}
		productID, err := intVar(entry, "productId")
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		quantity, err := intVar(entry, "quantity")
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		options, _ := entry["options"].(string)
		items = append(items, store.OrderItem{
			ProductID: productID,
			Quantity:  int(quantity),
			Options:   options,
		})
	}

	if _, err := h.orders.Place(ctx, items); err != nil {
		return nil, err
	}
	return true, nil
}

// intVar reads an integer variable, tolerating the float64 that JSON
// decoding produces.
func intVar(vars map[string]any, name string) (int64, error) {
	switch v := vars[name].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("variable %q must be an integer", name)
	}
}
