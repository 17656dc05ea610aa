package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/storefront/internal/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogServer answers the canned queries from a fixed payload per
// top-level field.
func catalogServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphql.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		field := graphql.FieldName(req.Query)
		payload, ok := responses[field]
		require.True(t, ok, "unexpected field %q", field)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
}

const shirtJSON = `{
	"id": 7,
	"name": "Shirt",
	"in_stock": true,
	"brand": "Acme",
	"price": {"amount": "19.99", "currency": "USD"},
	"gallery": ["https://img.test/shirt.png"],
	"category": {"id": 1, "name": "clothes"},
	"attributes": [
		{"id": 1, "name": "Size", "type": "text",
		 "items": [{"id": 11, "value": "M", "displayValue": "Medium"}]}
	]
}`

func TestClient_Products(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"products": `{"data":{"products":[` + shirtJSON + `]}}`,
	})
	defer srv.Close()

	products, err := NewClient(srv.URL, srv.Client()).Products(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Shirt", p.Name)
	assert.True(t, p.InStock)
	assert.Equal(t, "19.99 USD", p.Price.String())
	assert.Equal(t, "clothes", p.Category.Name)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, KindText, p.Attributes[0].Kind)
}

func TestClient_Products_SendsFilter(t *testing.T) {
	var seenVars map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphql.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seenVars = req.Variables
		w.Write([]byte(`{"data":{"products":[]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())

	_, err := client.Products(context.Background(), "tech")
	require.NoError(t, err)
	assert.Equal(t, "tech", seenVars["filter"])

	_, err = client.Products(context.Background(), "")
	require.NoError(t, err)
	_, ok := seenVars["filter"]
	assert.False(t, ok, "empty filter is omitted")
}

func TestClient_Product(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"product": `{"data":{"product":` + shirtJSON + `}}`,
	})
	defer srv.Close()

	p, err := NewClient(srv.URL, srv.Client()).Product(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", p.Name)
}

func TestClient_Product_NotFound(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"product": `{"data":{"product":null}}`,
	})
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Product(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product 99 not found")
}

func TestClient_Categories(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"categories": `{"data":{"categories":[{"id":1,"name":"all"},{"id":2,"name":"clothes"}]}}`,
	})
	defer srv.Close()

	categories, err := NewClient(srv.URL, srv.Client()).Categories(context.Background())
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, "all", categories[0].Name)
	assert.Equal(t, "clothes", categories[1].Name)
}

func TestClient_FieldErrorSurfaces(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"categories": `{"errors":[{"message":"storage unavailable"}]}`,
	})
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Categories(context.Background())
	require.Error(t, err)

	var respErr *graphql.ResponseError
	assert.ErrorAs(t, err, &respErr)
}
