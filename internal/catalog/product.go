package catalog

// AttributeKind distinguishes how an attribute's items are rendered.
type AttributeKind string

const (
	KindText   AttributeKind = "text"
	KindSwatch AttributeKind = "swatch"
)

// AttributeItem is one selectable value of an attribute. Value is the raw
// stored option value (a size code, a hex color), DisplayValue is the
// presentation text.
type AttributeItem struct {
	ID           int64  `json:"id"`
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
}

type Attribute struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Kind  AttributeKind   `json:"type"`
	Items []AttributeItem `json:"items"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is the catalog's view of a product. Cart line items carry a copy
// of this struct captured at add-to-cart time; it is never re-synced with
// the catalog afterwards.
type Product struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	InStock     bool        `json:"in_stock"`
	Description string      `json:"description,omitempty"`
	Brand       string      `json:"brand,omitempty"`
	Price       Money       `json:"price"`
	Gallery     []string    `json:"gallery"`
	Category    Category    `json:"category"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// SelectedOptions maps an attribute id (as a string key) to the chosen
// item's raw value.
type SelectedOptions map[string]string

// Clone returns an independent copy, so cart snapshots cannot be mutated
// through the caller's map.
func (o SelectedOptions) Clone() SelectedOptions {
	if o == nil {
		return nil
	}
	out := make(SelectedOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
