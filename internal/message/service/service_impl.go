package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/unsentpro/unsent-api/internal/clock"
	messagedomain "github.com/unsentpro/unsent-api/internal/message/domain"
	"github.com/unsentpro/unsent-api/internal/message/prompt"
	obscontext "github.com/unsentpro/unsent-api/internal/observability/context"
	"github.com/unsentpro/unsent-api/internal/observability/metrics"
	"github.com/unsentpro/unsent-api/internal/providers/openai"
	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxWords caps the length hint passed to the model.
const maxWords = 250

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID         *snowflake.Node
	clock         clock.Clock
	repo          messagedomain.Repository
	subscriptions subscriptiondomain.Service
	prompts       *prompt.Loader
	generator     openai.Generator
	metrics       *metrics.HTTPMetrics
}

type ServiceParam struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          messagedomain.Repository
	Subscriptions subscriptiondomain.Service
	Prompts       *prompt.Loader
	Generator     openai.Generator
	Metrics       *metrics.HTTPMetrics `optional:"true"`
}

func NewService(p ServiceParam) messagedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("message.service"),

		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		subscriptions: p.Subscriptions,
		prompts:       p.Prompts,
		generator:     p.Generator,
		metrics:       p.Metrics,
	}
}

// GenerateCustomMessage implements domain.Service.
func (s *Service) GenerateCustomMessage(ctx context.Context, req messagedomain.GenerateCustomMessageRequest) (messagedomain.GeneratedMessage, error) {
	customerUserID := strings.TrimSpace(req.CustomerUserID)
	if customerUserID == "" {
		return messagedomain.GeneratedMessage{}, messagedomain.ErrMissingCustomerUserID
	}

	if err := s.requireActiveSubscription(ctx, customerUserID); err != nil {
		return messagedomain.GeneratedMessage{}, err
	}

	tpl, err := s.prompts.Load(prompt.CustomMessage)
	if err != nil {
		return messagedomain.GeneratedMessage{}, err
	}

	userPrompt := prompt.Render(tpl.UserPrompt, map[string]string{
		"tone":                 req.Tone,
		"context":              req.Context,
		"raw_message":          req.RawMessage,
		"requested_word_count": strconv.Itoa(req.WordCount),
		"max_words":            strconv.Itoa(maxWords),
	})

	return s.generateAndLog(ctx, customerUserID, "custom", tpl.SystemPrompt, userPrompt)
}

// GenerateStructuredMessage implements domain.Service.
func (s *Service) GenerateStructuredMessage(ctx context.Context, req messagedomain.GenerateStructuredMessageRequest) (messagedomain.GeneratedMessage, error) {
	customerUserID := strings.TrimSpace(req.CustomerUserID)
	if customerUserID == "" {
		return messagedomain.GeneratedMessage{}, messagedomain.ErrMissingCustomerUserID
	}

	if err := s.requireActiveSubscription(ctx, customerUserID); err != nil {
		return messagedomain.GeneratedMessage{}, err
	}

	tpl, err := s.prompts.Load(prompt.StructuredMessage)
	if err != nil {
		return messagedomain.GeneratedMessage{}, err
	}

	systemPrompt := prompt.Render(tpl.SystemPrompt, map[string]string{
		"max_words": strconv.Itoa(maxWords),
	})
	userPrompt := prompt.Render(tpl.UserPrompt, map[string]string{
		"recipient":        req.Recipient,
		"message_type":     req.MessageType,
		"additional_notes": req.AdditionalNotes,
		"word_count":       strconv.Itoa(req.WordCount),
		"answersText":      formatAnswers(req.Answers),
	})

	return s.generateAndLog(ctx, customerUserID, "structured", systemPrompt, userPrompt)
}

func (s *Service) requireActiveSubscription(ctx context.Context, customerUserID string) error {
	_, err := s.subscriptions.GetActiveByCustomerUserID(ctx, subscriptiondomain.GetSubscriptionRequest{
		CustomerUserID: customerUserID,
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound) {
		return messagedomain.ErrNoActiveSubscription
	}
	return err
}

func (s *Service) generateAndLog(ctx context.Context, customerUserID, kind, systemPrompt, userPrompt string) (messagedomain.GeneratedMessage, error) {
	generated, err := s.generator.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.metrics.ObserveGeneration(kind, false)
		return messagedomain.GeneratedMessage{}, err
	}
	s.metrics.ObserveGeneration(kind, true)

	ip, userAgent := obscontext.ClientFromContext(ctx)
	entry := messagedomain.MessageLog{
		ID:             s.genID.Generate(),
		CustomerUserID: customerUserID,
		Prompt: datatypes.JSONMap{
			"system_prompt": systemPrompt,
			"user_prompt":   userPrompt,
		},
		GeneratedMessage: generated,
		IPAddress:        ip,
		UserAgent:        userAgent,
		CreatedAt:        s.clock.Now(),
	}
	if err := s.repo.InsertLog(ctx, s.db, &entry); err != nil {
		return messagedomain.GeneratedMessage{}, fmt.Errorf("log message: %w", err)
	}

	s.log.Info("message generated",
		zap.String("customer_user_id", customerUserID),
		zap.String("kind", kind),
	)
	return messagedomain.GeneratedMessage{
		SystemPrompt:     systemPrompt,
		UserPrompt:       userPrompt,
		GeneratedMessage: generated,
	}, nil
}

func formatAnswers(answers []messagedomain.Answer) string {
	parts := make([]string, 0, len(answers))
	for _, answer := range answers {
		value := answer.CustomInput
		if value == "" {
			value = answer.SelectedOption
		}
		if value == "" {
			value = "(not answered)"
		}
		parts = append(parts, fmt.Sprintf("%s \n->  %s \n", answer.Question, value))
	}
	return strings.Join(parts, "\n")
}
