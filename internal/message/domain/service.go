package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Answer is one entry of the structured questionnaire.
type Answer struct {
	Question       string `json:"question"`
	SelectedOption string `json:"selected_option"`
	CustomInput    string `json:"custom_input"`
}

type GenerateCustomMessageRequest struct {
	CustomerUserID string `json:"customer_user_id"`
	Tone           string `json:"tone"`
	Context        string `json:"context"`
	RawMessage     string `json:"raw_message"`
	WordCount      int    `json:"word_count"`
}

type GenerateStructuredMessageRequest struct {
	CustomerUserID  string   `json:"customer_user_id"`
	Recipient       string   `json:"recipient"`
	MessageType     string   `json:"message_type"`
	AdditionalNotes string   `json:"additional_notes"`
	WordCount       int      `json:"word_count"`
	Answers         []Answer `json:"answers"`
}

// GeneratedMessage carries the rendered prompts and the model output.
type GeneratedMessage struct {
	SystemPrompt     string
	UserPrompt       string
	GeneratedMessage string
}

type Service interface {
	GenerateCustomMessage(ctx context.Context, req GenerateCustomMessageRequest) (GeneratedMessage, error)
	GenerateStructuredMessage(ctx context.Context, req GenerateStructuredMessageRequest) (GeneratedMessage, error)
}

type Repository interface {
	InsertLog(ctx context.Context, db *gorm.DB, entry *MessageLog) error
}

var (
	ErrMissingCustomerUserID = errors.New("missing_customer_user_id")
	ErrNoActiveSubscription  = errors.New("no_active_subscription")
	ErrRateLimited           = errors.New("rate_limited")
)
