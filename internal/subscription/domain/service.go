package domain

import (
	"context"
	"errors"
	"fmt"
)

// AddSubscriptionRequest is the purchase payload submitted by the mobile
// client after a store transaction completes.
type AddSubscriptionRequest struct {
	CustomerUserID        string  `json:"customer_user_id"`
	Product               string  `json:"product"`
	Price                 float64 `json:"price"`
	Currency              string  `json:"currency"`
	Platform              string  `json:"platform"`
	TransactionID         string  `json:"transaction_id"`
	OriginalTransactionID string  `json:"original_transaction_id"`
	PurchaseDate          string  `json:"purchase_date"`
	Environment           string  `json:"environment"`
}

type GetSubscriptionRequest struct {
	CustomerUserID string
}

type Service interface {
	AddSubscription(ctx context.Context, req AddSubscriptionRequest) (Subscription, error)
	GetActiveByCustomerUserID(ctx context.Context, req GetSubscriptionRequest) (Subscription, error)
}

var (
	ErrMissingRequiredFields = errors.New("missing_required_fields")
	ErrInvalidPurchaseDate   = errors.New("invalid_purchase_date")
	ErrSubscriptionNotFound  = errors.New("subscription_not_found")
)

// ValidationFailedError reports a provider rejecting the purchase.
type ValidationFailedError struct {
	Provider string
	Reason   string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%s subscription validation failed: %s", e.Provider, e.Reason)
}

// StoreError wraps persistence failures so the transport layer can surface
// the database message.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
