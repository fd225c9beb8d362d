package validation

import (
	"github.com/unsentpro/unsent-api/internal/config"
	"github.com/unsentpro/unsent-api/internal/validation/adapters"
	"github.com/unsentpro/unsent-api/internal/validation/adapters/adapty"
	"github.com/unsentpro/unsent-api/internal/validation/adapters/apple"
	"github.com/unsentpro/unsent-api/internal/validation/adapters/noop"
	"github.com/unsentpro/unsent-api/internal/validation/adapters/revenuecat"
	"github.com/unsentpro/unsent-api/internal/validation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("validation",
	fx.Provide(NewValidator),
)

// NewValidator resolves the configured provider once at startup. Missing or
// unusable credentials fail the application boot instead of every request.
func NewValidator(cfg config.Config, log *zap.Logger) (domain.Validator, error) {
	registry := adapters.NewRegistry(
		apple.NewFactory(),
		adapty.NewFactory(),
		revenuecat.NewFactory(),
		noop.NewFactory(),
	)

	adapterCfg := domain.AdapterConfig{
		Config: providerConfig(cfg),
	}
	switch cfg.ValidationMethod {
	case config.MethodApple:
		adapterCfg.BaseURL = cfg.Apple.BaseURL
	case config.MethodAdapty:
		adapterCfg.BaseURL = cfg.Adapty.BaseURL
	case config.MethodRevenueCat:
		adapterCfg.BaseURL = cfg.RevenueCat.BaseURL
	}

	validator, err := registry.NewValidator(cfg.ValidationMethod, adapterCfg)
	if err != nil {
		return nil, err
	}

	log.Named("validation").Info("purchase validation configured",
		zap.String("provider", validator.Provider()),
	)
	return validator, nil
}

func providerConfig(cfg config.Config) map[string]string {
	return map[string]string{
		"key_id":      cfg.Apple.KeyID,
		"issuer_id":   cfg.Apple.IssuerID,
		"bundle_id":   cfg.Apple.BundleID,
		"private_key": cfg.Apple.PrivateKey,
		"api_key":     providerAPIKey(cfg),
		"project_id":  cfg.RevenueCat.ProjectID,
	}
}

func providerAPIKey(cfg config.Config) string {
	if cfg.ValidationMethod == config.MethodRevenueCat {
		return cfg.RevenueCat.APIKey
	}
	return cfg.Adapty.APIKey
}
