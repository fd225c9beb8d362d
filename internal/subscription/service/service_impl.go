package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/unsentpro/unsent-api/internal/clock"
	"github.com/unsentpro/unsent-api/internal/observability/metrics"
	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
	validationdomain "github.com/unsentpro/unsent-api/internal/validation/domain"
	"github.com/unsentpro/unsent-api/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	clock     clock.Clock
	repo      subscriptiondomain.Repository
	validator validationdomain.Validator
	metrics   *metrics.HTTPMetrics
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      subscriptiondomain.Repository
	Validator validationdomain.Validator
	Metrics   *metrics.HTTPMetrics `optional:"true"`
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("subscription.service"),

		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		validator: p.Validator,
		metrics:   p.Metrics,
	}
}

// AddSubscription validates a purchase with the configured provider and
// persists the resulting entitlement. Replays of an already active
// transaction return the stored row without a second provider call.
func (s *Service) AddSubscription(ctx context.Context, req subscriptiondomain.AddSubscriptionRequest) (subscriptiondomain.Subscription, error) {
	customerUserID := strings.TrimSpace(req.CustomerUserID)
	product := subscriptiondomain.Product(strings.TrimSpace(req.Product))
	currency := strings.TrimSpace(req.Currency)
	transactionID := strings.TrimSpace(req.TransactionID)

	if customerUserID == "" || product == "" || currency == "" || req.Price <= 0 {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrMissingRequiredFields
	}

	purchaseDate, err := s.resolvePurchaseDate(req.PurchaseDate)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	now := s.clock.Now()

	if transactionID != "" {
		existing, err := s.repo.FindActiveByTransactionID(ctx, s.db, transactionID, now)
		if err != nil {
			return subscriptiondomain.Subscription{}, &subscriptiondomain.StoreError{Err: err}
		}
		if existing != nil {
			s.log.Info("transaction already recorded, returning stored subscription",
				zap.String("transaction_id", transactionID),
			)
			return *existing, nil
		}
	}

	result, err := s.validator.Validate(ctx, validationdomain.Request{
		CustomerUserID: customerUserID,
		TransactionID:  transactionID,
		Environment:    strings.TrimSpace(req.Environment),
	})
	if err != nil {
		s.metrics.ObserveValidation(s.validator.Provider(), false)
		return subscriptiondomain.Subscription{}, &subscriptiondomain.ValidationFailedError{
			Provider: s.validator.Provider(),
			Reason:   err.Error(),
		}
	}
	s.metrics.ObserveValidation(s.validator.Provider(), result.Valid)
	if !result.Valid {
		return subscriptiondomain.Subscription{}, &subscriptiondomain.ValidationFailedError{
			Provider: s.validator.Provider(),
			Reason:   result.Reason,
		}
	}

	expiresAt, err := subscriptiondomain.ExpiryDate(purchaseDate, product)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	subscription := subscriptiondomain.Subscription{
		ID:             s.genID.Generate(),
		CustomerUserID: customerUserID,
		Product:        product,
		Price:          req.Price,
		Currency:       currency,
		IsActive:       true,
		Platform:       strings.TrimSpace(req.Platform),
		TransactionID:  transactionID,
		PurchaseDate:   purchaseDate,
		Environment:    strings.TrimSpace(req.Environment),
		ExpiresAt:      expiresAt,
		CreatedAt:      now,
	}
	if original := strings.TrimSpace(req.OriginalTransactionID); original != "" {
		subscription.OriginalTransactionID = &original
	}

	if err := s.repo.Insert(ctx, s.db, &subscription); err != nil {
		// A concurrent submission of the same transaction can win the insert
		// when the schema enforces uniqueness; return its row instead.
		if db.IsDuplicateKeyErr(err) && transactionID != "" {
			existing, lookupErr := s.repo.FindActiveByTransactionID(ctx, s.db, transactionID, now)
			if lookupErr == nil && existing != nil {
				return *existing, nil
			}
		}
		return subscriptiondomain.Subscription{}, &subscriptiondomain.StoreError{Err: err}
	}

	s.log.Info("subscription recorded",
		zap.String("customer_user_id", customerUserID),
		zap.String("product", string(product)),
		zap.Time("expires_at", expiresAt),
	)
	return subscription, nil
}

// GetActiveByCustomerUserID implements domain.Service.
func (s *Service) GetActiveByCustomerUserID(ctx context.Context, req subscriptiondomain.GetSubscriptionRequest) (subscriptiondomain.Subscription, error) {
	customerUserID := strings.TrimSpace(req.CustomerUserID)
	if customerUserID == "" {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrMissingRequiredFields
	}

	item, err := s.repo.FindActiveByCustomerUserID(ctx, s.db, customerUserID, s.clock.Now())
	if err != nil {
		return subscriptiondomain.Subscription{}, &subscriptiondomain.StoreError{Err: err}
	}
	if item == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}

	return *item, nil
}

func (s *Service) resolvePurchaseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.clock.Now(), nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, subscriptiondomain.ErrInvalidPurchaseDate
	}
	return parsed, nil
}
