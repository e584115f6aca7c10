package vectorstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestParseGetResponse(t *testing.T) {
	data := decode(t, `{
		"Get": {
			"ProductShopify": [
				{
					"name": "Linen Shirt",
					"price": 30,
					"tags": ["summer", "linen"],
					"_additional": {
						"id": "5b0c9a1e-0000-5000-8000-000000000001",
						"distance": 0.12,
						"generate": {"groupedResult": "Here are two shirts.", "error": null}
					}
				},
				{
					"name": "Cotton Shirt",
					"_additional": {
						"id": "5b0c9a1e-0000-5000-8000-000000000002",
						"distance": 0.2,
						"generate": null
					}
				}
			]
		}
	}`)

	res, err := parseGetResponse(data, "ProductShopify")
	require.NoError(t, err)

	assert.Equal(t, "Here are two shirts.", res.Answer)
	assert.Empty(t, res.generateErr)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "5b0c9a1e-0000-5000-8000-000000000001", res.Matches[0].ID)
	assert.InDelta(t, 0.12, res.Matches[0].Distance, 1e-9)
	assert.Equal(t, "Linen Shirt", res.Matches[0].Properties["name"])
	assert.NotContains(t, res.Matches[0].Properties, "_additional")
	assert.Equal(t, "Cotton Shirt", res.Matches[1].Properties["name"])
}

func TestParseGetResponse_GenerateError(t *testing.T) {
	data := decode(t, `{"Get": {"ProductShopify": [
		{"name": "A", "_additional": {"id": "1", "distance": 0.1, "generate": {"groupedResult": null, "error": "quota exceeded"}}}
	]}}`)

	res, err := parseGetResponse(data, "ProductShopify")
	require.NoError(t, err)
	assert.Empty(t, res.Answer)
	assert.Equal(t, "quota exceeded", res.generateErr)
	assert.Len(t, res.Matches, 1)
}

func TestParseGetResponse_EmptyAndMalformed(t *testing.T) {
	res, err := parseGetResponse(decode(t, `{"Get": {"ProductShopify": null}}`), "ProductShopify")
	require.NoError(t, err)
	assert.Empty(t, res.Matches)

	_, err = parseGetResponse(decode(t, `{}`), "ProductShopify")
	assert.Error(t, err)

	_, err = parseGetResponse(decode(t, `{"Get": {"ProductShopify": "oops"}}`), "ProductShopify")
	assert.Error(t, err)
}
