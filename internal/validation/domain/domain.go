// Package domain defines the purchase validation contract shared by all
// provider adapters.
package domain

import (
	"context"
	"errors"
	"net/http"
)

// Request carries the purchase facts a provider needs to confirm.
type Request struct {
	CustomerUserID string
	TransactionID  string
	Environment    string
}

// Result is the outcome of a provider check. Reason is set when Valid is
// false and is safe to return to the caller.
type Result struct {
	Valid    bool
	Reason   string
	Metadata map[string]any
}

// Validator confirms a purchase against a store backend.
type Validator interface {
	Provider() string
	Validate(ctx context.Context, req Request) (Result, error)
}

// AdapterConfig carries provider credentials and transport overrides.
// Config keys are provider-specific.
type AdapterConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Config     map[string]string
}

// Factory builds a Validator from configuration.
type Factory interface {
	Provider() string
	NewValidator(cfg AdapterConfig) (Validator, error)
}

var (
	ErrProviderNotFound = errors.New("provider_not_found")
	ErrInvalidConfig    = errors.New("invalid_provider_config")
)

// Invalid is shorthand for a failed validation result.
func Invalid(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// Valid is shorthand for a passing validation result.
func Valid() Result {
	return Result{Valid: true}
}
