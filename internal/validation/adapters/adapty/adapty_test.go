package adapty

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unsentpro/unsent-api/internal/validation/domain"
)

func newTestValidator(t *testing.T, srv *httptest.Server) domain.Validator {
	t.Helper()
	validator, err := NewFactory().NewValidator(domain.AdapterConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Config:     map[string]string{"api_key": "secret_live_key"},
	})
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return validator
}

func TestNewValidatorRequiresAPIKey(t *testing.T) {
	_, err := NewFactory().NewValidator(domain.AdapterConfig{Config: map[string]string{}})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidateActiveSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Api-Key secret_live_key" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("adapty-customer-user-id"); got != "user-1" {
			t.Errorf("customer header = %q", got)
		}
		w.Write([]byte(`{"data":{"subscriptions":{
			"com.unsentpro.weekly":{"is_active":false},
			"com.unsentpro.monthly":{"is_active":true}
		}}}`))
	}))
	defer srv.Close()

	res, err := newTestValidator(t, srv).Validate(context.Background(), domain.Request{CustomerUserID: "user-1"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got reason %q", res.Reason)
	}
	if res.Metadata["product_id"] != "com.unsentpro.monthly" {
		t.Fatalf("metadata product_id = %v", res.Metadata["product_id"])
	}
}

func TestValidateNoActiveSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"subscriptions":{"com.unsentpro.weekly":{"is_active":false}}}}`))
	}))
	defer srv.Close()

	res, err := newTestValidator(t, srv).Validate(context.Background(), domain.Request{CustomerUserID: "user-2"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if res.Reason != "No active Adapty subscription" {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestValidateProfileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := newTestValidator(t, srv).Validate(context.Background(), domain.Request{CustomerUserID: "user-3"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != "Adapty profile not found" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestValidateMissingCustomerUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach Adapty")
	}))
	defer srv.Close()

	res, err := newTestValidator(t, srv).Validate(context.Background(), domain.Request{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid || res.Reason != "Missing customer user id" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
