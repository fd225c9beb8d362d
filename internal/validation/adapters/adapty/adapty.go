// Package adapty validates purchases against the Adapty server-side API.
package adapty

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/unsentpro/unsent-api/internal/validation/domain"
)

const defaultBaseURL = "https://api.adapty.io/api/v2/server-side-api"

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "adapty"
}

func (f *Factory) NewValidator(cfg domain.AdapterConfig) (domain.Validator, error) {
	apiKey := strings.TrimSpace(cfg.Config["api_key"])
	if apiKey == "" {
		return nil, domain.ErrInvalidConfig
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Validator{apiKey: apiKey, httpClient: client, baseURL: baseURL}, nil
}

type Validator struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func (v *Validator) Provider() string {
	return "adapty"
}

func (v *Validator) Validate(ctx context.Context, req domain.Request) (domain.Result, error) {
	customerUserID := strings.TrimSpace(req.CustomerUserID)
	if customerUserID == "" {
		return domain.Invalid("Missing customer user id"), nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/profile/", nil)
	if err != nil {
		return domain.Result{}, err
	}
	httpReq.Header.Set("Authorization", "Api-Key "+v.apiKey)
	httpReq.Header.Set("adapty-customer-user-id", customerUserID)

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return domain.Invalid(fmt.Sprintf("Adapty request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Invalid("Adapty profile not found"), nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Invalid(fmt.Sprintf("Adapty responded with status %d", resp.StatusCode)), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Result{}, err
	}

	var profile profileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return domain.Invalid("Unexpected Adapty response"), nil
	}

	for productID, subscription := range profile.Data.Subscriptions {
		if subscription.IsActive {
			return domain.Result{
				Valid:    true,
				Metadata: map[string]any{"product_id": productID},
			}, nil
		}
	}

	return domain.Invalid("No active Adapty subscription"), nil
}

type profileResponse struct {
	Data struct {
		Subscriptions map[string]struct {
			IsActive bool `json:"is_active"`
		} `json:"subscriptions"`
	} `json:"data"`
}
