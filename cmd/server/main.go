// Command server hosts the birthday-present concierge behind a small JSON
// API. Configuration comes entirely from the environment (.env for local
// runs).
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/birthdai/concierge/internal/agent/graph"
	"github.com/birthdai/concierge/internal/agent/model"
	"github.com/birthdai/concierge/internal/agent/repo"
	"github.com/birthdai/concierge/internal/core"
	"github.com/birthdai/concierge/internal/server"
	logx "github.com/birthdai/concierge/pkg/logger"
	pkgredis "github.com/birthdai/concierge/pkg/redis"
)

// AppConfig defines all configurable parameters for the concierge service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config
	Addr  string `envconfig:"HTTP_ADDR" default:":8080"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Concierge    model.ConciergeModelConfig
	Prompt       model.ConciergePromptConfig
	Conversation model.ConversationConfig
	SerpAPI      model.SerpAPIConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := core.FromEnv()
	logx.Init(logx.LoggerOpts{Environment: env})

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Redis client")
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Str("ttl", cfg.Conversation.TTL).Err(err).Msg("invalid CONVERSATION_TTL")
	}

	runner, err := graph.BuildConciergeGraph(ctx, graph.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ConciergeModel:   cfg.Concierge,
		ConciergePrompt:  cfg.Prompt,
		Conversation:     cfg.Conversation,
		SerpAPI:          cfg.SerpAPI,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build concierge graph")
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(runner).Handler(),
	}

	go func() {
		logx.Info().Str("addr", cfg.Addr).Str("environment", env.String()).Msg("concierge server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("shutdown incomplete")
	}
}
