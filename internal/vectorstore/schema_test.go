package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSchema(t *testing.T) {
	s := ProductSchema("ProductShopify")

	assert.Equal(t, "ProductShopify", s.Name)
	assert.Equal(t, []string{
		"product_id", "name", "price", "description", "image", "category", "productCategory",
		"type", "rating", "stock", "tags", "createdAt", "updatedAt", "isActive", "discount",
	}, s.PropertyNames())
}

func TestSchemaClass(t *testing.T) {
	class := ProductSchema("ProductShopify").class()

	assert.Equal(t, "ProductShopify", class.Class)
	assert.Equal(t, Text2VecOpenAI, class.Vectorizer)
	require.Len(t, class.Properties, 15)

	byName := map[string][]string{}
	for _, p := range class.Properties {
		byName[p.Name] = p.DataType
	}
	assert.Equal(t, []string{"text"}, byName["product_id"])
	assert.Equal(t, []string{"number"}, byName["price"])
	assert.Equal(t, []string{"int"}, byName["stock"])
	assert.Equal(t, []string{"text[]"}, byName["tags"])
	assert.Equal(t, []string{"date"}, byName["createdAt"])
	assert.Equal(t, []string{"boolean"}, byName["isActive"])

	modules, ok := class.ModuleConfig.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, modules, Text2VecOpenAI)
	assert.Contains(t, modules, GenerativeOpenAI)
}
