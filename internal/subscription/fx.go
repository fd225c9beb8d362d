package subscription

import (
	"github.com/unsentpro/unsent-api/internal/subscription/repository"
	"github.com/unsentpro/unsent-api/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
