package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindActiveByCustomerUserID(ctx context.Context, db *gorm.DB, customerUserID string, at time.Time) (*Subscription, error)
	FindActiveByTransactionID(ctx context.Context, db *gorm.DB, transactionID string, at time.Time) (*Subscription, error)
}
