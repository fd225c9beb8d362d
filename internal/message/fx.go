package message

import (
	"github.com/unsentpro/unsent-api/internal/config"
	"github.com/unsentpro/unsent-api/internal/message/prompt"
	"github.com/unsentpro/unsent-api/internal/message/repository"
	"github.com/unsentpro/unsent-api/internal/message/service"
	"go.uber.org/fx"
)

var Module = fx.Module("message.service",
	fx.Provide(func(cfg config.Config) *prompt.Loader {
		return prompt.NewLoader(cfg.PromptsDir)
	}),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
