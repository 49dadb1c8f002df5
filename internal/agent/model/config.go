package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"30m"`
	Context struct {
		MaxTurns int `envconfig:"CONVERSATION_CONTEXT_MAX_TURNS" default:"20"`
	}
	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"8"`
	}
}

type ConciergeModelConfig struct {
	Model       string  `envconfig:"CONCIERGE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CONCIERGE_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"CONCIERGE_TEMPERATURE" default:"0.4"`
}

type ConciergePromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"birthd.ai"`
	Locale        string `envconfig:"PROMPT_LOCALE" default:"ja"`
}

// SerpAPIConfig configures the Google Shopping search backend used by the
// shopping tools. Country/Language map to the SerpApi gl/hl parameters.
type SerpAPIConfig struct {
	APIKey      string `envconfig:"SERPAPI_API_KEY"`
	Endpoint    string `envconfig:"SERPAPI_SHOPPING_ENDPOINT" default:"https://serpapi.com/search.json"`
	Country     string `envconfig:"SERPAPI_GL" default:"jp"`
	Language    string `envconfig:"SERPAPI_HL" default:"ja"`
	MaxAttempts int    `envconfig:"SERPAPI_MAX_ATTEMPTS" default:"3"`
	Timeout     int    `envconfig:"SERPAPI_TIMEOUT" default:"30"`
}
