package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthdai/concierge/internal/agent/graph/tools"
	"github.com/birthdai/concierge/internal/agent/model"
)

func TestRenderConciergeSystem(t *testing.T) {
	rendered, err := RenderConciergeSystem(context.Background(), model.ConciergePromptConfig{
		AssistantName: "birthd.ai",
		Locale:        "ja",
	})
	require.NoError(t, err)

	assert.Contains(t, rendered, "birthd.ai")
	assert.Contains(t, rendered, tools.ToolShoppingSearch)
	assert.Contains(t, rendered, tools.ToolProductDetails)
	assert.Contains(t, rendered, tools.ToolSocialProfile)
	assert.NotContains(t, rendered, "{{", "all placeholders should be substituted")
}
