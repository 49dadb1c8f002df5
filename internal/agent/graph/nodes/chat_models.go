package nodes

import (
	"context"
	"fmt"

	logx "github.com/birthdai/concierge/pkg/logger"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/birthdai/concierge/internal/agent/model"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey    string
	BaseURL   string
	Concierge *model.ConciergeModelConfig
}

// ChatModels holds the concierge chat model
type ChatModels struct {
	Concierge          *gemini.ChatModel
	ConciergeModelName string
}

// NewChatModels creates the concierge chat model with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Concierge.Model,
		Temperature: &config.Concierge.Temperature,
		MaxTokens:   &config.Concierge.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating concierge model")
		return nil, fmt.Errorf("error creating concierge model: %w", err)
	}

	return &ChatModels{
		Concierge:          chatModel,
		ConciergeModelName: config.Concierge.Model,
	}, nil
}

// BindToolsToConciergeModel binds tools to the concierge chat model
func (cm *ChatModels) BindToolsToConciergeModel(ctx context.Context, tools []*schema.ToolInfo) error {
	err := cm.Concierge.BindTools(tools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Msg("Successfully bound tools to concierge model")
	return nil
}

// NewConciergeChatModelNode creates a wrapper for the concierge chat model to be used as a node
func NewConciergeChatModelNode(chatModel *gemini.ChatModel) *gemini.ChatModel {
	return chatModel
}
