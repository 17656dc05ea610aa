// Package store is the storefront's server-side persistence: catalog reads
// and order writes over a relational schema, with Postgres and MySQL
// drivers behind the same implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/catalog"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyOrder      = errors.New("order must have at least one item")
)

// OrderItem is one line of an incoming order: the product, how many, and
// the client's selected options as an opaque JSON string.
type OrderItem struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Options   string `json:"options,omitempty"`
}

// OrderRecord is a persisted order, for the admin listing.
type OrderRecord struct {
	ID        int64       `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// Store is everything the API needs from persistence.
type Store interface {
	Products(ctx context.Context, categoryFilter string) ([]catalog.Product, error)
	Product(ctx context.Context, id int64) (*catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)

	// CreateOrder persists the order and its items in one transaction and
	// returns the new order id. Any failure rolls the whole order back.
	CreateOrder(ctx context.Context, items []OrderItem) (int64, error)
	Orders(ctx context.Context) ([]OrderRecord, error)

	AddGalleryImage(ctx context.Context, productID int64, url string) error
}
