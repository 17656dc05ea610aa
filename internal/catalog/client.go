package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/example/storefront/internal/graphql"
)

const productFields = `
	id
	name
	in_stock
	description
	brand
	price { amount currency }
	gallery
	category { id name }
	attributes {
		id
		name
		type
		items { id value displayValue }
	}`

var (
	productsQuery = fmt.Sprintf(`query Products($filter: String) { products(filter: $filter) {%s
} }`, productFields)

	productQuery = fmt.Sprintf(`query Product($id: Int!) { product(id: $id) {%s
} }`, productFields)

	categoriesQuery = `query Categories { categories { id name } }`
)

// Client reads the catalog over the storefront's query transport. It is a
// thin, read-only collaborator: the cart snapshots whatever it returns and
// never asks again.
type Client struct {
	gql *graphql.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	return &Client{gql: graphql.NewClient(endpoint, httpClient)}
}

// Products lists the catalog, optionally narrowed to one category name.
func (c *Client) Products(ctx context.Context, categoryFilter string) ([]Product, error) {
	vars := map[string]any{}
	if categoryFilter != "" {
		vars["filter"] = categoryFilter
	}
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.gql.Do(ctx, productsQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return out.Products, nil
}

// Product fetches one product by id.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var out struct {
		Product *Product `json:"product"`
	}
	vars := map[string]any{"id": id}
	if err := c.gql.Do(ctx, productQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	if out.Product == nil {
		return nil, fmt.Errorf("product %d not found", id)
	}
	return out.Product, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out struct {
		Categories []Category `json:"categories"`
	}
	if err := c.gql.Do(ctx, categoriesQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return out.Categories, nil
}
