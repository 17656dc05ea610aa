package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	ErrIncompleteSelection = errors.New("selection is missing an attribute")
	ErrUnknownAttribute    = errors.New("selection references an unknown attribute")
	ErrUnknownOptionValue  = errors.New("selected value is not offered by the attribute")
	ErrNoStrategy          = errors.New("no strategy registered for category/attribute pair")
)

// Strategy bundles how an attribute of a given kind behaves within a given
// category: how an item is labelled for display and how a chosen raw value
// is validated. New categories and attribute kinds are supported by
// registering an entry, not by editing branch logic.
type Strategy struct {
	Label    func(item AttributeItem) string
	Validate func(attr Attribute, value string) error
}

type registryKey struct {
	category string
	kind     AttributeKind
}

// Registry maps (category name, attribute kind) to a Strategy.
type Registry struct {
	strategies map[registryKey]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[registryKey]Strategy)}
}

func (r *Registry) Register(category string, kind AttributeKind, s Strategy) {
	r.strategies[registryKey{category: category, kind: kind}] = s
}

// Lookup resolves the strategy for a pair, falling back to a category
// wildcard ("") before failing.
func (r *Registry) Lookup(category string, kind AttributeKind) (Strategy, error) {
	if s, ok := r.strategies[registryKey{category: category, kind: kind}]; ok {
		return s, nil
	}
	if s, ok := r.strategies[registryKey{category: "", kind: kind}]; ok {
		return s, nil
	}
	return Strategy{}, fmt.Errorf("%w: %s/%s", ErrNoStrategy, category, kind)
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3}(?:[0-9a-fA-F]{3})?$`)

// DefaultRegistry covers the attribute kinds the catalog ships with: plain
// text items everywhere, and swatch items whose raw value must be a hex
// color.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("", KindText, Strategy{
		Label:    func(item AttributeItem) string { return item.DisplayValue },
		Validate: valueOffered,
	})
	r.Register("", KindSwatch, Strategy{
		Label: func(item AttributeItem) string { return item.DisplayValue },
		Validate: func(attr Attribute, value string) error {
			if !hexColor.MatchString(value) {
				return fmt.Errorf("%w: %q is not a color", ErrUnknownOptionValue, value)
			}
			return valueOffered(attr, value)
		},
	})
	return r
}

func valueOffered(attr Attribute, value string) error {
	for _, item := range attr.Items {
		if item.Value == value {
			return nil
		}
	}
	return fmt.Errorf("%w: attribute %q has no value %q", ErrUnknownOptionValue, attr.Name, value)
}

// ValidateSelection checks that opts is a complete, well-formed selection
// for p: one entry per attribute that offers items, no entries for
// attributes the product does not expose, every value actually offered.
// Enforcing this before add-to-cart is the calling surface's policy; the
// cart itself accepts any option map.
func ValidateSelection(reg *Registry, p Product, opts SelectedOptions) error {
	byID := make(map[string]Attribute, len(p.Attributes))
	for _, attr := range p.Attributes {
		byID[strconv.FormatInt(attr.ID, 10)] = attr
	}

	for id := range opts {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("%w: id %s", ErrUnknownAttribute, id)
		}
	}

	for id, attr := range byID {
		if len(attr.Items) == 0 {
			continue
		}
		value, ok := opts[id]
		if !ok {
			return fmt.Errorf("%w: %q", ErrIncompleteSelection, attr.Name)
		}
		strategy, err := reg.Lookup(p.Category.Name, attr.Kind)
		if err != nil {
			return err
		}
		if err := strategy.Validate(attr, value); err != nil {
			return err
		}
	}
	return nil
}
