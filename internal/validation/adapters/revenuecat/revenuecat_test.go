package revenuecat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unsentpro/unsent-api/internal/validation/domain"
)

func TestNormalizeCustomerID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$RCAnonymousID:abc123", "$RCAnonymousID:abc123"},
		{":abc123", "$RCAnonymousID:abc123"},
		{"abc123", "$RCAnonymousID:abc123"},
		{"  abc123  ", "$RCAnonymousID:abc123"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeCustomerID(tc.in); got != tc.want {
			t.Fatalf("NormalizeCustomerID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewValidatorRequiresCredentials(t *testing.T) {
	_, err := NewFactory().NewValidator(domain.AdapterConfig{
		Config: map[string]string{"api_key": "sk_test"},
	})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func newTestValidator(t *testing.T, srv *httptest.Server) domain.Validator {
	t.Helper()
	validator, err := NewFactory().NewValidator(domain.AdapterConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Config: map[string]string{
			"api_key":    "sk_test",
			"project_id": "proj123",
		},
	})
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return validator
}

func TestValidateActiveEntitlement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization = %q", got)
		}
		if want := "/projects/proj123/customers/$RCAnonymousID:user-1"; r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		w.Write([]byte(`{"active_entitlements":{"items":[{"entitlement_id":"premium"}]}}`))
	}))
	defer srv.Close()

	res, err := newTestValidator(t, srv).Validate(context.Background(), domain.Request{CustomerUserID: "user-1"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got reason %q", res.Reason)
	}
	if res.Metadata["entitlement_id"] != "premium" {
		t.Fatalf("metadata entitlement_id = %v", res.Metadata["entitlement_id"])
	}
}

func TestValidateNoEntitlements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"active_entitlements":{"items":[]}}`))
	}))
	defer srv.Close()

	res, err := newTestValidator(t, srv).Validate(context.Background(), domain.Request{CustomerUserID: "user-2"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != "No active RevenueCat entitlement" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestValidateCustomerNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := newTestValidator(t, srv).Validate(context.Background(), domain.Request{CustomerUserID: "user-3"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != "RevenueCat customer not found" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
