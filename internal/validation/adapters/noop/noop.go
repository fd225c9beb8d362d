// Package noop accepts every purchase without contacting a store backend.
// It backs deployments that have no validation provider configured.
package noop

import (
	"context"

	"github.com/unsentpro/unsent-api/internal/validation/domain"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "none"
}

func (f *Factory) NewValidator(cfg domain.AdapterConfig) (domain.Validator, error) {
	_ = cfg
	return &Validator{}, nil
}

type Validator struct{}

func (v *Validator) Provider() string {
	return "none"
}

func (v *Validator) Validate(ctx context.Context, req domain.Request) (domain.Result, error) {
	_ = ctx
	_ = req
	return domain.Valid(), nil
}
