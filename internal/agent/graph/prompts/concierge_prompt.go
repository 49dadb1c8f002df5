package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/birthdai/concierge/internal/agent/graph/tools"
	"github.com/birthdai/concierge/internal/agent/model"
)

//go:embed template/concierge_prompt.txt
var conciergeSystemPrompt string

// RenderConciergeSystem renders the concierge system prompt and triggers prompt callbacks.
func RenderConciergeSystem(ctx context.Context, config model.ConciergePromptConfig) (string, error) {
	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(conciergeSystemPrompt),
	)
	vars := map[string]any{
		"AssistantName": config.AssistantName,
		"Locale":        config.Locale,
		"SearchTool":    tools.ToolShoppingSearch,
		"DetailsTool":   tools.ToolProductDetails,
		"ProfileTool":   tools.ToolSocialProfile,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("concierge prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("concierge prompt render: empty result")
	}
	return msgs[0].Content, nil
}
