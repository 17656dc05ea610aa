package email

import (
	"testing"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderConfirmationBody(t *testing.T) {
	price, err := catalog.NewMoney("19.99", "USD")
	require.NoError(t, err)

	body, err := BuildOrderConfirmationBody(order.Placed{
		OrderID: 42,
		Items: []order.PlacedItem{
			{ProductID: 7, Name: "Shirt", Quantity: 2, Options: `{"1":"M"}`, UnitPrice: price},
			{ProductID: 9, Name: "Cap", Quantity: 1, UnitPrice: price},
		},
		Total:    price.Mul(3),
		PlacedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, body, "New order #42")
	assert.Contains(t, body, "Shirt")
	assert.Contains(t, body, "Cap")
	assert.Contains(t, body, "19.99 USD")
	assert.Contains(t, body, "Total: 59.97 USD")
	assert.Contains(t, body, "2026-08-30 12:00:00 UTC")
}

func TestBuildOrderConfirmationBody_EscapesHTML(t *testing.T) {
	price, err := catalog.NewMoney("1.00", "USD")
	require.NoError(t, err)

	body, err := BuildOrderConfirmationBody(order.Placed{
		OrderID: 1,
		Items: []order.PlacedItem{
			{Name: `<script>alert("x")</script>`, Quantity: 1, UnitPrice: price},
		},
		Total:    price,
		PlacedAt: time.Now(),
	})
	require.NoError(t, err)

	assert.NotContains(t, body, `<script>alert`)
	assert.Contains(t, body, "&lt;script&gt;")
}
