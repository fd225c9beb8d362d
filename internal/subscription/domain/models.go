// Package domain contains persistence models and contracts for mobile
// subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product identifies a purchasable subscription tier.
type Product string

const (
	ProductWeekly  Product = "com.unsentpro.weekly"
	ProductMonthly Product = "com.unsentpro.monthly"
	ProductYearly  Product = "com.unsentpro.yearly"
)

// Subscription captures a validated purchase and its entitlement window.
type Subscription struct {
	ID                    snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerUserID        string       `gorm:"type:text;not null;index" json:"customer_user_id"`
	Product               Product      `gorm:"type:text;not null" json:"product"`
	Price                 float64      `gorm:"not null" json:"price"`
	Currency              string       `gorm:"type:text;not null" json:"currency"`
	IsActive              bool         `gorm:"not null;default:true" json:"is_active"`
	Platform              string       `gorm:"type:text" json:"platform,omitempty"`
	TransactionID         string       `gorm:"type:text;index" json:"transaction_id,omitempty"`
	OriginalTransactionID *string      `gorm:"type:text" json:"original_transaction_id,omitempty"`
	PurchaseDate          time.Time    `gorm:"not null" json:"purchase_date"`
	Environment           string       `gorm:"type:text" json:"environment,omitempty"`
	ExpiresAt             time.Time    `gorm:"not null;index" json:"expires_at"`
	CreatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
