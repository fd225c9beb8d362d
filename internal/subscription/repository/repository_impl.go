package repository

import (
	"context"
	"time"

	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscription *subscriptiondomain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (
			id, customer_user_id, product, price, currency, is_active, platform,
			transaction_id, original_transaction_id, purchase_date, environment,
			expires_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subscription.ID,
		subscription.CustomerUserID,
		subscription.Product,
		subscription.Price,
		subscription.Currency,
		subscription.IsActive,
		subscription.Platform,
		subscription.TransactionID,
		subscription.OriginalTransactionID,
		subscription.PurchaseDate,
		subscription.Environment,
		subscription.ExpiresAt,
		subscription.CreatedAt,
	).Error
}

func (r *repo) FindActiveByCustomerUserID(ctx context.Context, db *gorm.DB, customerUserID string, at time.Time) (*subscriptiondomain.Subscription, error) {
	return r.findActive(ctx, db, "customer_user_id = ?", customerUserID, at)
}

func (r *repo) FindActiveByTransactionID(ctx context.Context, db *gorm.DB, transactionID string, at time.Time) (*subscriptiondomain.Subscription, error) {
	return r.findActive(ctx, db, "transaction_id = ?", transactionID, at)
}

func (r *repo) findActive(ctx context.Context, db *gorm.DB, cond string, value string, at time.Time) (*subscriptiondomain.Subscription, error) {
	var rows []subscriptiondomain.Subscription
	err := db.WithContext(ctx).
		Where(cond, value).
		Where("is_active = ?", true).
		Where("expires_at >= ?", at).
		Order("expires_at DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
