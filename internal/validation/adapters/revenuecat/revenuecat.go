// Package revenuecat validates purchases against the RevenueCat API v2.
package revenuecat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unsentpro/unsent-api/internal/validation/domain"
)

const (
	defaultBaseURL = "https://api.revenuecat.com/v2"

	anonymousIDPrefix = "$RCAnonymousID:"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "revenuecat"
}

func (f *Factory) NewValidator(cfg domain.AdapterConfig) (domain.Validator, error) {
	apiKey := strings.TrimSpace(cfg.Config["api_key"])
	projectID := strings.TrimSpace(cfg.Config["project_id"])
	if apiKey == "" || projectID == "" {
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

	return &Validator{
		apiKey:     apiKey,
		projectID:  projectID,
		httpClient: client,
		baseURL:    baseURL,
	}, nil
}

type Validator struct {
	apiKey     string
	projectID  string
	httpClient *http.Client
	baseURL    string
}

func (v *Validator) Provider() string {
	return "revenuecat"
}

func (v *Validator) Validate(ctx context.Context, req domain.Request) (domain.Result, error) {
	customerID := NormalizeCustomerID(req.CustomerUserID)
	if customerID == "" {
		return domain.Invalid("Missing customer user id"), nil
	}

	endpoint := fmt.Sprintf("%s/projects/%s/customers/%s",
		v.baseURL, url.PathEscape(v.projectID), url.PathEscape(customerID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Result{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return domain.Invalid(fmt.Sprintf("RevenueCat request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Invalid("RevenueCat customer not found"), nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Invalid(fmt.Sprintf("RevenueCat responded with status %d", resp.StatusCode)), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Result{}, err
	}

	var customer customerResponse
	if err := json.Unmarshal(body, &customer); err != nil {
		return domain.Invalid("Unexpected RevenueCat response"), nil
	}

	if len(customer.ActiveEntitlements.Items) == 0 {
		return domain.Invalid("No active RevenueCat entitlement"), nil
	}

	return domain.Result{
		Valid:    true,
		Metadata: map[string]any{"entitlement_id": customer.ActiveEntitlements.Items[0].EntitlementID},
	}, nil
}

// NormalizeCustomerID maps client-supplied identifiers onto RevenueCat's
// anonymous id format. A bare ":" prefix is replaced with the full anonymous
// prefix; ids with no recognized prefix get it prepended.
func NormalizeCustomerID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}
	if strings.HasPrefix(id, anonymousIDPrefix) {
		return id
	}
	if strings.HasPrefix(id, ":") {
		return anonymousIDPrefix + strings.TrimPrefix(id, ":")
	}
	return anonymousIDPrefix + id
}

type customerResponse struct {
	ActiveEntitlements struct {
		Items []struct {
			EntitlementID string `json:"entitlement_id"`
		} `json:"items"`
	} `json:"active_entitlements"`
}
