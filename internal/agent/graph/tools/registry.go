package tools

import (
	"context"
	"fmt"

	"github.com/birthdai/concierge/internal/agent/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Tool names as exposed to the model.
const (
	ToolShoppingSearch = "shopping_search"
	ToolProductDetails = "fetch_product_details"
	ToolSocialProfile  = "fetch_social_profile"
)

// GetQueryTools returns every tool available to the concierge, wired to a
// shared SerpApi client.
func GetQueryTools(cfg model.SerpAPIConfig) []tool.BaseTool {
	client := NewSerpClient(cfg)
	return []tool.BaseTool{
		createShoppingSearchTool(client),
		createProductDetailsTool(client),
		createSocialProfileTool(),
	}
}

// GetToolInfos resolves the ToolInfo of each tool for model binding.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
