package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/store"
)

var (
	ErrEmptyOrder      = errors.New("order must have at least one item")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// Publisher pushes events to the stream; the kafka producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service handles order intake: validate the items against the catalog,
// persist them in one transaction, announce the order. Prices in the
// published event are recomputed from the store's price table; whatever
// price the client displayed is informational only.
type Service struct {
	store     store.Store
	publisher Publisher
}

func NewService(st store.Store, publisher Publisher) *Service {
	return &Service{store: st, publisher: publisher}
}

func (s *Service) Place(ctx context.Context, items []store.OrderItem) (int64, error) {
	if len(items) == 0 {
		return 0, ErrEmptyOrder
	}

	placedItems := make([]PlacedItem, 0, len(items))
	var total catalog.Money
	for _, item := range items {
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}
		p, err := s.store.Product(ctx, item.ProductID)
		if err != nil {
			return 0, err
		}
		if !p.InStock {
			return 0, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}
		placedItems = append(placedItems, PlacedItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			Options:   item.Options,
			UnitPrice: p.Price,
		})
		total = total.Add(p.Price.Mul(item.Quantity))
	}

	orderID, err := s.store.CreateOrder(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	s.announce(ctx, orderID, placedItems, total)
	return orderID, nil
}

// The event is advisory: a publish failure must not fail an order that is
// already committed.
func (s *Service) announce(ctx context.Context, orderID int64, items []PlacedItem, total catalog.Money) {
	if s.publisher == nil {
		return
	}
	placed := Placed{OrderID: orderID, Items: items, Total: total, PlacedAt: time.Now().UTC()}
	event, err := NewEvent(EventOrderPlaced, placed)
	if err != nil {
		log.Printf("[Order] Failed to build OrderPlaced event for order %d: %v", orderID, err)
		return
	}
	key := fmt.Sprintf("order-%d", orderID)
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Printf("[Order] Failed to publish OrderPlaced for order %d: %v", orderID, err)
	}
}
