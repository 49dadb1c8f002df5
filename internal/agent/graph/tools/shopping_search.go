package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/birthdai/concierge/internal/agent/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Shopping Search Tool
// ===================================

const maxShoppingResults = 10

type ShoppingSearchInput struct {
	Query string `json:"query"`
}

type ShoppingSearchOutput struct {
	Query       string                `json:"query"`
	Results     []model.GiftCandidate `json:"results"`
	RawMetadata ShoppingMetadata      `json:"raw_metadata"`
}

type ShoppingMetadata struct {
	TotalResults any `json:"total_results,omitempty"`
}

func createShoppingSearchTool(client *SerpClient) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolShoppingSearch,
			Desc: "Search Google Shopping for gift candidates. Supports Japanese/English keywords (プレゼント, ギフト, watch, 花束, ヘッドホン...). Returns up to 10 candidates with title, price, seller, product link, thumbnail and a serpapi_product_api reference usable with " + ToolProductDetails + ". Use this tool whenever the user names a product genre, hobby or budget.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Product search keywords in Japanese or English. Can mix genre, brand and price hints, e.g. 'ワイヤレスイヤホン 1万円以内' or 'craft beer gift set'.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ShoppingSearchInput) (*ShoppingSearchOutput, error) {
			if in.Query == "" {
				return nil, fmt.Errorf("query is required")
			}
			if err := client.RequireKey(); err != nil {
				return nil, err
			}

			params := client.searchParams("google_shopping")
			params.Set("q", in.Query)
			params.Set("gl", client.cfg.Country)
			params.Set("hl", client.cfg.Language)
			params.Set("num", "20")

			raw, err := client.GetJSON(ctx, "", params)
			if err != nil {
				return nil, err
			}

			out := &ShoppingSearchOutput{
				Query:   in.Query,
				Results: summarizeShoppingResults(raw),
			}
			if info, ok := raw["search_information"].(map[string]any); ok {
				out.RawMetadata.TotalResults = info["total_results"]
			}
			return out, nil
		},
	)
}

// summarizeShoppingResults keeps the first ten shopping results, flattening
// each entry to the fields the concierge needs. Missing fields stay empty and
// are dropped by omitempty when the result is serialised back to the model.
func summarizeShoppingResults(raw map[string]any) []model.GiftCandidate {
	items, _ := raw["shopping_results"].([]any)
	results := make([]model.GiftCandidate, 0, maxShoppingResults)

	for _, it := range items {
		if len(results) >= maxShoppingResults {
			break
		}
		entry, ok := it.(map[string]any)
		if !ok {
			continue
		}

		c := model.GiftCandidate{
			Position:    asInt(entry["position"]),
			Title:       asString(entry["title"]),
			Price:       asString(entry["price"]),
			Source:      asString(entry["source"]),
			ProductLink: asString(entry["product_link"]),
			ProductAPI:  asString(entry["serpapi_product_api"]),
			Shipping:    asString(entry["delivery"]),
		}
		if f, ok := entry["extracted_price"].(float64); ok {
			c.ExtractedPrice = f
			if c.Price == "" {
				c.Price = strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
		if c.Thumbnail = asString(entry["thumbnail"]); c.Thumbnail == "" {
			c.Thumbnail = asString(entry["serpapi_thumbnail"])
		}
		if c.Description = asString(entry["excerpt"]); c.Description == "" {
			c.Description = asString(entry["description"])
		}

		results = append(results, c)
	}
	return results
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	// JSON numbers decode as float64
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}
