package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Product Details Tool
// ===================================

type ProductDetailsInput struct {
	ProductReference string `json:"product_reference"`
}

type ProductDetailsOutput struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Prices      any            `json:"prices,omitempty"`
	Conditions  any            `json:"conditions,omitempty"`
	Extensions  any            `json:"extensions,omitempty"`
	Media       any            `json:"media,omitempty"`
	ProductID   string         `json:"product_id,omitempty"`
	ProductLink string         `json:"product_link,omitempty"`
	Sellers     []any          `json:"sellers,omitempty"`
	Raw         map[string]any `json:"-"`
}

func createProductDetailsTool(client *SerpClient) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolProductDetails,
			Desc: "Fetch a rich product record for a Google Shopping item: full description, price range, conditions, media and online sellers. Use it before recommending a shortlisted candidate.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_reference": {
					Type:     "string",
					Desc:     "A serpapi_product_api URL from " + ToolShoppingSearch + " results, a bare product id, or a 'product_id:<id>' string.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ProductDetailsInput) (*ProductDetailsOutput, error) {
			ref := strings.TrimSpace(in.ProductReference)
			if ref == "" {
				return nil, fmt.Errorf("product_reference is required")
			}
			if err := client.RequireKey(); err != nil {
				return nil, err
			}

			var raw map[string]any
			var err error

			if strings.HasPrefix(ref, "http") {
				// Append the API key without clobbering the existing query string.
				connector := "?"
				if strings.Contains(ref, "?") {
					connector = "&"
				}
				raw, err = client.GetJSON(ctx, ref+connector+"api_key="+client.cfg.APIKey, nil)
			} else {
				productID := ref
				if strings.HasPrefix(ref, "product_id:") {
					productID = strings.SplitN(ref, ":", 2)[1]
				}
				params := client.searchParams("google_product")
				params.Set("product_id", productID)
				params.Set("gl", client.cfg.Country)
				params.Set("hl", client.cfg.Language)
				raw, err = client.GetJSON(ctx, "", params)
			}
			if err != nil {
				return nil, err
			}

			return formatProductDetails(raw), nil
		},
	)
}

func formatProductDetails(raw map[string]any) *ProductDetailsOutput {
	product, _ := raw["product_results"].(map[string]any)

	out := &ProductDetailsOutput{
		Title:       asString(product["title"]),
		Description: asString(product["description"]),
		Prices:      product["prices"],
		Conditions:  product["conditions"],
		Extensions:  product["extensions"],
		Media:       product["media"],
		ProductID:   asString(product["product_id"]),
		ProductLink: asString(product["product_link"]),
		Raw:         raw,
	}

	if out.ProductLink == "" {
		if meta, ok := raw["search_metadata"].(map[string]any); ok {
			out.ProductLink = asString(meta["google_product_url"])
		}
	}
	if sellers, ok := raw["sellers_results"].(map[string]any); ok {
		if online, ok := sellers["online_sellers"].([]any); ok {
			out.Sellers = online
		}
	}
	return out
}
