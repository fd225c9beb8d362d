// Package domain contains models and contracts for AI message generation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// MessageLog is the audit record written once per successful generation.
// It is never read back by this service.
type MessageLog struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	CustomerUserID   string            `gorm:"type:text;not null;index" json:"customer_user_id"`
	Prompt           datatypes.JSONMap `gorm:"type:jsonb" json:"prompt"`
	GeneratedMessage string            `gorm:"type:text;not null" json:"generated_message"`
	IPAddress        string            `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent        string            `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (MessageLog) TableName() string { return "message_logs" }
