// Package apple validates purchases against the App Store Server API.
package apple

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/unsentpro/unsent-api/internal/validation/domain"
)

const (
	productionBaseURL = "https://api.storekit.itunes.apple.com"
	sandboxBaseURL    = "https://api.storekit-sandbox.itunes.apple.com"

	EnvironmentProduction = "production"
	EnvironmentSandbox    = "sandbox"
)

var transactionIDPattern = regexp.MustCompile(`^\d+$`)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "apple"
}

func (f *Factory) NewValidator(cfg domain.AdapterConfig) (domain.Validator, error) {
	creds := Credentials{
		KeyID:      strings.TrimSpace(cfg.Config["key_id"]),
		IssuerID:   strings.TrimSpace(cfg.Config["issuer_id"]),
		BundleID:   strings.TrimSpace(cfg.Config["bundle_id"]),
		PrivateKey: cfg.Config["private_key"],
	}
	signer, err := NewAssertionSigner(creds)
	if err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Validator{
		signer:     signer,
		httpClient: client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

type Validator struct {
	signer     *AssertionSigner
	httpClient *http.Client

	// baseURL overrides the environment-derived endpoint when set.
	baseURL string
}

func (v *Validator) Provider() string {
	return "apple"
}

func (v *Validator) Validate(ctx context.Context, req domain.Request) (domain.Result, error) {
	transactionID := strings.TrimSpace(req.TransactionID)
	if !transactionIDPattern.MatchString(transactionID) {
		return domain.Invalid("Invalid transaction id"), nil
	}

	environment := strings.ToLower(strings.TrimSpace(req.Environment))
	if environment == "" {
		environment = EnvironmentSandbox
	}
	if environment != EnvironmentProduction && environment != EnvironmentSandbox {
		return domain.Invalid("Invalid environment"), nil
	}

	assertion, err := v.signer.Sign(time.Now())
	if err != nil {
		return domain.Result{}, fmt.Errorf("sign assertion: %w", err)
	}
	if err := v.signer.Verify(assertion, time.Now()); err != nil {
		return domain.Result{}, fmt.Errorf("verify assertion: %w", err)
	}

	endpoint := fmt.Sprintf("%s/inApps/v2/transactions/%s", v.resolveBaseURL(environment), transactionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Result{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+assertion)

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return domain.Invalid(fmt.Sprintf("App Store request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to payload handling below
	case http.StatusUnauthorized:
		return domain.Invalid("Apple rejected the API credentials (check key id, issuer id and bundle id)"), nil
	case http.StatusNotFound:
		return domain.Invalid("Transaction not found"), nil
	default:
		return domain.Invalid(fmt.Sprintf("App Store responded with status %d", resp.StatusCode)), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Result{}, err
	}

	var payload transactionResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Invalid("Unexpected App Store response"), nil
	}
	if strings.TrimSpace(payload.SignedTransactionInfo) == "" {
		return domain.Invalid("Missing signed transaction info"), nil
	}

	info, err := DecodeSignedTransaction(payload.SignedTransactionInfo)
	if err != nil {
		return domain.Invalid("Unable to decode signed transaction"), nil
	}

	return domain.Result{
		Valid: true,
		Metadata: map[string]any{
			"transaction_id":          info.TransactionID,
			"original_transaction_id": info.OriginalTransactionID,
			"product_id":              info.ProductID,
			"bundle_id":               info.BundleID,
			"environment":             info.Environment,
		},
	}, nil
}

func (v *Validator) resolveBaseURL(environment string) string {
	if v.baseURL != "" {
		return v.baseURL
	}
	if environment == EnvironmentProduction {
		return productionBaseURL
	}
	return sandboxBaseURL
}

type transactionResponse struct {
	SignedTransactionInfo string `json:"signedTransactionInfo"`
}
