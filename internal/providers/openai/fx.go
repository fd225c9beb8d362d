package openai

import (
	"github.com/unsentpro/unsent-api/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.openai",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Generator {
	return New(Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		BaseURL:     cfg.OpenAI.BaseURL,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	})
}
