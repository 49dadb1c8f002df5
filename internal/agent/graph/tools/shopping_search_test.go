package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeShoppingResults(t *testing.T) {
	raw := map[string]any{
		"shopping_results": []any{
			map[string]any{
				"position":            float64(1),
				"title":               "ワイヤレスイヤホン",
				"price":               "¥9,800",
				"extracted_price":     float64(9800),
				"source":              "ヨドバシカメラ",
				"product_link":        "https://example.com/p/1",
				"serpapi_product_api": "https://serpapi.com/search.json?engine=google_product&product_id=1",
				"delivery":            "送料無料",
				"thumbnail":           "https://example.com/t/1.jpg",
				"excerpt":             "ノイズキャンセリング対応",
			},
			map[string]any{
				"position":          float64(2),
				"title":             "コーヒーギフトセット",
				"extracted_price":   float64(4500),
				"serpapi_thumbnail": "https://example.com/t/2.jpg",
				"description":       "自家焙煎の豆3種",
			},
		},
	}

	results := summarizeShoppingResults(raw)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "ワイヤレスイヤホン", first.Title)
	assert.Equal(t, "¥9,800", first.Price)
	assert.Equal(t, 9800.0, first.ExtractedPrice)
	assert.Equal(t, "ヨドバシカメラ", first.Source)
	assert.Equal(t, "送料無料", first.Shipping)
	assert.Equal(t, "https://example.com/t/1.jpg", first.Thumbnail)
	assert.Equal(t, "ノイズキャンセリング対応", first.Description)

	// fallbacks: price from extracted_price, thumbnail/description from
	// the alternate keys
	second := results[1]
	assert.Equal(t, "4500", second.Price)
	assert.Equal(t, "https://example.com/t/2.jpg", second.Thumbnail)
	assert.Equal(t, "自家焙煎の豆3種", second.Description)
}

func TestSummarizeShoppingResultsCapsAtTen(t *testing.T) {
	items := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, map[string]any{
			"position": float64(i + 1),
			"title":    "item",
		})
	}

	results := summarizeShoppingResults(map[string]any{"shopping_results": items})
	assert.Len(t, results, maxShoppingResults)
}

func TestSummarizeShoppingResultsSkipsMalformedEntries(t *testing.T) {
	raw := map[string]any{
		"shopping_results": []any{
			"not a map",
			map[string]any{"title": "ok"},
		},
	}

	results := summarizeShoppingResults(raw)
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].Title)
}

func TestSummarizeShoppingResultsEmptyPayload(t *testing.T) {
	assert.Empty(t, summarizeShoppingResults(map[string]any{}))
}
