package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/internhub/internal/ai"
	"github.com/spigell/internhub/internal/ai/gemini"
	"github.com/spigell/internhub/internal/logger"
	"github.com/spigell/internhub/internal/matching"
	"github.com/spigell/internhub/internal/secrets"
)

func newNarrator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Narrator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
	}

	genLogger := logger.WithCommonFields(log, "gemini", cfg.Gemini.Model).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, gemini.GeneratorConfig{
		APIKey:          apiKey,
		Model:           cfg.Gemini.Model,
		MaxRetries:      cfg.Gemini.MaxRetries,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewNarrator(generator, log, cfg.Gemini.MaxLogLength), nil
}

// newService wires the matching service. Without a usable API key it falls back
// to ATS-only scoring instead of failing.
func newService(ctx context.Context, config *Config, atsOnly bool, log *zap.Logger) *matching.Service {
	concurrency := config.Batch.Concurrency

	if atsOnly || !config.AI.Enabled {
		log.Info("ai analysis disabled, using ats scoring only")
		return matching.NewService(nil, log, concurrency)
	}

	narrator, err := newNarrator(ctx, config.AI, log)
	if err != nil {
		log.Warn("ai analysis unavailable, using ats scoring only",
			zap.Error(err),
			zap.String("hint", "pass --ats-only or set ai.enabled: false to silence this warning"),
		)
		return matching.NewService(nil, log, concurrency)
	}

	return matching.NewService(narrator, log, concurrency)
}
