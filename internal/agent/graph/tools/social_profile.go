package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Social Profile Tool
// ===================================
//
// Grok is deliberately not called here: automated lookups burn through its
// quota, so the tool hands the user an exact prompt to run manually and asks
// them to paste the answer back into the conversation.

type SocialProfileInput struct {
	ProfileURL string `json:"profile_url"`
}

type SocialProfileOutput struct {
	Handle       string `json:"handle,omitempty"`
	Prompt       string `json:"prompt"`
	Instructions string `json:"instructions"`
}

var handlePattern = regexp.MustCompile(`(?:x|twitter)\.com/([^/?#]+)`)

// extractHandle returns the X handle (without @) if present in the URL.
func extractHandle(profileURL string) string {
	m := handlePattern.FindStringSubmatch(profileURL)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], "@")
}

func createSocialProfileTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSocialProfile,
			Desc: "Prepare a manual Grok research prompt for an X (Twitter) profile so the user can learn the recipient's job, hobbies and wishes. Returns step-by-step instructions; the user pastes Grok's answer back into the chat.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"profile_url": {
					Type:     "string",
					Desc:     "The recipient's X profile URL, e.g. https://x.com/username.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *SocialProfileInput) (*SocialProfileOutput, error) {
			if strings.TrimSpace(in.ProfileURL) == "" {
				return nil, fmt.Errorf("profile_url is required")
			}

			handle := extractHandle(in.ProfileURL)
			profileURL := in.ProfileURL
			if handle != "" {
				profileURL = "https://x.com/" + handle
			}

			prompt := fmt.Sprintf("%s の最新100件の投稿を調べ、職業・趣味・欲しいものなどを調査してください", profileURL)
			instructions := "Grok API の直接呼び出しを避けるため、手動で確認してください。\n" +
				"1. https://grok.com を開き、チャット画面にアクセスします。\n" +
				"2. 次のプロンプトをそのまま入力して送信します。\n\n" +
				prompt + "\n\n" +
				"3. Grok の回答内容をコピーし、このエージェントにペーストして共有してください。"

			return &SocialProfileOutput{
				Handle:       handle,
				Prompt:       prompt,
				Instructions: instructions,
			}, nil
		},
	)
}
