package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "bare selection",
			query: `{ products { id name } }`,
			want:  "products",
		},
		{
			name:  "query keyword",
			query: `query { categories { name } }`,
			want:  "categories",
		},
		{
			name:  "named operation",
			query: `query GetProduct($id: Int!) { product(id: $id) { id } }`,
			want:  "product",
		},
		{
			name:  "mutation with variable definitions",
			query: `mutation PlaceOrder($items: [OrderItem!]!) { placeOrder(items: $items) }`,
			want:  "placeOrder",
		},
		{
			name:  "leading whitespace and newlines",
			query: "\n\tquery {\n  products { id }\n}",
			want:  "products",
		},
		{
			name:  "no braces",
			query: `products`,
			want:  "",
		},
		{
			name:  "empty selection",
			query: `query { }`,
			want:  "",
		},
		{
			name:  "empty string",
			query: ``,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldName(tt.query))
		})
	}
}

func postQuery(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestHandler_DispatchesToResolver(t *testing.T) {
	h := NewHandler()
	h.Resolve("products", func(ctx context.Context, vars map[string]any) (any, error) {
		return []map[string]any{{"id": 1, "name": "Shirt"}}, nil
	})

	rec, envelope := postQuery(t, h, `{"query":"{ products { id name } }"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, envelope.Errors)
	assert.JSONEq(t, `{"products":[{"id":1,"name":"Shirt"}]}`, string(envelope.Data))
}

func TestHandler_PassesVariables(t *testing.T) {
	h := NewHandler()
	var got map[string]any
	h.Resolve("product", func(ctx context.Context, vars map[string]any) (any, error) {
		got = vars
		return nil, nil
	})

	postQuery(t, h, `{"query":"query GetProduct($id: Int!) { product(id: $id) { id } }","variables":{"id":7}}`)

	require.NotNil(t, got)
	assert.Equal(t, float64(7), got["id"])
}

func TestHandler_UnknownField(t *testing.T) {
	h := NewHandler()

	rec, envelope := postQuery(t, h, `{"query":"{ nope { id } }"}`)

	assert.Equal(t, http.StatusOK, rec.Code, "field errors ride a 200")
	require.Len(t, envelope.Errors, 1)
	assert.Contains(t, envelope.Errors[0].Message, "nope")
}

func TestHandler_ResolverError(t *testing.T) {
	h := NewHandler()
	h.Resolve("products", func(ctx context.Context, vars map[string]any) (any, error) {
		return nil, errors.New("storage unavailable")
	})

	rec, envelope := postQuery(t, h, `{"query":"{ products { id } }"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "storage unavailable", envelope.Errors[0].Message)
}

func TestHandler_MalformedBody(t *testing.T) {
	h := NewHandler()

	_, envelope := postQuery(t, h, `{not json`)

	require.Len(t, envelope.Errors, 1)
	assert.Contains(t, envelope.Errors[0].Message, "malformed request body")
}

func TestHandler_RejectsNonPOST(t *testing.T) {
	h := NewHandler()
	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
