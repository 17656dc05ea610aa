// Package cart holds the client-side shopping cart: an ordered collection
// of line items keyed by option key, persisted to a local blob after every
// mutation and rehydrated once at startup.
package cart

import (
	"fmt"
	"log"
	"sync"

	"github.com/example/storefront/internal/catalog"
)

// LineItem is one product configured a specific way, with a quantity.
// Product is a snapshot captured at add-to-cart time; upstream price
// changes do not reach an already-carted item.
type LineItem struct {
	Product  catalog.Product         `json:"product"`
	Options  catalog.SelectedOptions `json:"options"`
	Quantity int                     `json:"quantity"`
}

func (li LineItem) Key() string {
	return Key(li.Product.ID, li.Options)
}

func (li LineItem) Subtotal() catalog.Money {
	return li.Product.Price.Mul(li.Quantity)
}

// Store is the cart. It is constructed once at application start and
// handed to every surface that needs it; there is no package-level
// singleton. All methods are safe for concurrent use.
//
// Invariants: at most one line per option key, and every stored quantity
// is positive — an update that would drive a quantity to zero or below
// removes the line instead.
type Store struct {
	mu      sync.Mutex
	storage Storage
	items   map[string]*LineItem
	keys    []string // insertion order
	open    bool     // overlay visibility; transient, never persisted
}

// NewStore rehydrates the cart from storage. A missing blob yields an
// empty cart; a corrupt one is an error the caller decides about.
func NewStore(storage Storage) (*Store, error) {
	s := &Store{
		storage: storage,
		items:   make(map[string]*LineItem),
	}
	lines, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		s.mergeLocked(line)
	}
	return s, nil
}

// Add puts one unit of the configured product in the cart, merging into an
// existing line when the option key matches.
func (s *Store) Add(p catalog.Product, opts catalog.SelectedOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mergeLocked(LineItem{Product: p, Options: opts.Clone(), Quantity: 1})
	s.persistLocked()
}

// Remove deletes the matching line. Removing an absent line is a no-op,
// not an error.
func (s *Store) Remove(productID int64, opts catalog.SelectedOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(productID, opts)
	if _, ok := s.items[key]; !ok {
		return
	}
	s.deleteLocked(key)
	s.persistLocked()
}

// SetQuantity sets the line's quantity to exactly quantity (not additive).
// A quantity of zero or below removes the line. Setting a quantity on an
// absent line is a no-op.
func (s *Store) SetQuantity(productID int64, opts catalog.SelectedOptions, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(productID, opts)
	item, ok := s.items[key]
	if !ok {
		return
	}
	if quantity <= 0 {
		s.deleteLocked(key)
	} else {
		item.Quantity = quantity
	}
	s.persistLocked()
}

// Clear empties the cart, as after a successfully acknowledged order.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*LineItem)
	s.keys = nil
	s.persistLocked()
}

// ToggleVisible flips the overlay flag and reports the new state.
func (s *Store) ToggleVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = !s.open
	return s.open
}

func (s *Store) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ItemCount is the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, key := range s.keys {
		count += s.items[key].Quantity
	}
	return count
}

// Total is the sum over lines of quantity times snapshot price. Recomputed
// on demand; carts are human-sized.
func (s *Store) Total() catalog.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total catalog.Money
	for _, key := range s.keys {
		total = total.Add(s.items[key].Subtotal())
	}
	return total
}

// Flush writes the current state to storage, for shutdown hooks.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Save(s.snapshotLocked())
}

func (s *Store) mergeLocked(line LineItem) {
	key := line.Key()
	if existing, ok := s.items[key]; ok {
		existing.Quantity += line.Quantity
		return
	}
	s.items[key] = &line
	s.keys = append(s.keys, key)
}

func (s *Store) deleteLocked(key string) {
	delete(s.items, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

func (s *Store) snapshotLocked() []LineItem {
	out := make([]LineItem, 0, len(s.keys))
	for _, key := range s.keys {
		item := *s.items[key]
		item.Options = item.Options.Clone()
		out = append(out, item)
	}
	return out
}

// A failed write leaves the in-memory cart authoritative for the session;
// the mutation is not rolled back.
func (s *Store) persistLocked() {
	if err := s.storage.Save(s.snapshotLocked()); err != nil {
		log.Printf("[Cart] Failed to persist cart: %v", err)
	}
}
