package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProduct_FullPayload(t *testing.T) {
	payload := `{
		"id": 7982301462741,
		"title": "Linen Shirt",
		"body_html": "<p>Breathable <strong>linen</strong> &amp; cotton</p>",
		"product_type": "Shirts",
		"status": "active",
		"tags": "summer, linen , ,men",
		"created_at": "2025-05-01T10:00:00+07:00",
		"updated_at": "2025-06-01T10:00:00+07:00",
		"variants": [
			{"id": 1, "price": "30.00", "compare_at_price": "40.00", "inventory_quantity": 3},
			{"id": 2, "price": "32.00", "inventory_quantity": 4}
		],
		"images": [{"id": 9, "src": "https://cdn.shopify.com/shirt.jpg"}]
	}`

	var sp ShopifyProduct
	require.NoError(t, json.Unmarshal([]byte(payload), &sp))

	p := sp.ToProduct(time.Now())

	assert.Equal(t, "7982301462741", p.ProductID)
	assert.Equal(t, "Linen Shirt", p.Name)
	assert.Equal(t, "Breathable linen & cotton", p.Description)
	assert.Equal(t, 30.0, p.Price)
	assert.Equal(t, 25.0, p.Discount)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, "https://cdn.shopify.com/shirt.jpg", p.Image)
	assert.Equal(t, []string{"summer", "linen", "men"}, p.Tags)
	assert.Equal(t, "Shirts", p.Type)
	assert.Equal(t, "Shirts", p.Category)
	assert.Equal(t, "Shirts", p.ProductCategory)
	assert.True(t, p.IsActive)
	assert.Equal(t, 2025, p.CreatedAt.Year())
	assert.Equal(t, time.June, p.UpdatedAt.Month())
}

func TestToProduct_MissingFieldsUseDefaults(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	p := ShopifyProduct{ID: 42, Title: "Mystery box"}.ToProduct(now)

	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "", p.Image)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.True(t, p.IsActive)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestToProduct_StatusAndPrices(t *testing.T) {
	draft := ShopifyProduct{ID: 1, Status: "draft"}.ToProduct(time.Now())
	assert.False(t, draft.IsActive)

	badPrice := ShopifyProduct{ID: 1, Variants: []ShopifyVariant{{Price: "n/a", CompareAtPrice: "10"}}}.ToProduct(time.Now())
	assert.Equal(t, 0.0, badPrice.Price)
	assert.Equal(t, 100.0, badPrice.Discount)

	noDiscount := ShopifyProduct{ID: 1, Variants: []ShopifyVariant{{Price: "10", CompareAtPrice: "8"}}}.ToProduct(time.Now())
	assert.Equal(t, 0.0, noDiscount.Discount)
}

func TestToProduct_PrefersMainImage(t *testing.T) {
	sp := ShopifyProduct{
		ID:     1,
		Image:  &ShopifyImage{Src: "main.jpg"},
		Images: []ShopifyImage{{Src: "other.jpg"}},
	}
	assert.Equal(t, "main.jpg", sp.ToProduct(time.Now()).Image)
}

func TestExternalID(t *testing.T) {
	assert.Equal(t, "", ShopifyProduct{}.ExternalID())
	assert.Equal(t, "123", ShopifyProduct{ID: 123}.ExternalID())
}

func TestView_DefaultsForClient(t *testing.T) {
	v := Product{Price: 9.5}.View("uuid-1")

	assert.Equal(t, "uuid-1", v.ID)
	assert.Equal(t, "Unnamed", v.Name)
	assert.Equal(t, []string{}, v.Tags)
	assert.Equal(t, 9.5, v.Price)
}
