package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/unsentpro/unsent-api/internal/clock"
	messagedomain "github.com/unsentpro/unsent-api/internal/message/domain"
	"github.com/unsentpro/unsent-api/internal/message/prompt"
	"github.com/unsentpro/unsent-api/internal/message/repository"
	obscontext "github.com/unsentpro/unsent-api/internal/observability/context"
	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubSubscriptionService struct {
	active map[string]bool
}

func (s *stubSubscriptionService) AddSubscription(ctx context.Context, req subscriptiondomain.AddSubscriptionRequest) (subscriptiondomain.Subscription, error) {
	return subscriptiondomain.Subscription{}, nil
}

func (s *stubSubscriptionService) GetActiveByCustomerUserID(ctx context.Context, req subscriptiondomain.GetSubscriptionRequest) (subscriptiondomain.Subscription, error) {
	if s.active[req.CustomerUserID] {
		return subscriptiondomain.Subscription{CustomerUserID: req.CustomerUserID, IsActive: true}, nil
	}
	return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
}

type stubGenerator struct {
	lastSystem string
	lastUser   string
	output     string
	err        error
}

func (g *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.lastSystem = systemPrompt
	g.lastUser = userPrompt
	if g.err != nil {
		return "", g.err
	}
	return g.output, nil
}

func writePromptDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	custom := `{"system_prompt":"You rewrite drafts.","user_prompt":"Tone: {{tone}}. Context: {{context}}. Draft: {{raw_message}}. About {{requested_word_count}} of {{max_words}} words."}`
	structured := `{"system_prompt":"Compose within {{max_words}} words.","user_prompt":"To {{recipient}} ({{message_type}}). Notes: {{additional_notes}}. Words: {{word_count}}. Answers:\n{{answersText}}"}`

	if err := os.WriteFile(filepath.Join(dir, "custom-message.json"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write custom template: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "structured-message.json"), []byte(structured), 0o644); err != nil {
		t.Fatalf("write structured template: %v", err)
	}
	return dir
}

func newTestService(t *testing.T, subs *stubSubscriptionService, gen *stubGenerator) (messagedomain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&messagedomain.MessageLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	svc := NewService(ServiceParam{
		DB:            db,
		Log:           zap.NewNop(),
		GenID:         node,
		Clock:         clock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
		Repo:          repository.Provide(),
		Subscriptions: subs,
		Prompts:       prompt.NewLoader(writePromptDir(t)),
		Generator:     gen,
	})
	return svc, db
}

func TestGenerateCustomMessage(t *testing.T) {
	subs := &stubSubscriptionService{active: map[string]bool{"user-1": true}}
	gen := &stubGenerator{output: "Dear friend, I have been meaning to write."}
	svc, db := newTestService(t, subs, gen)

	ctx := obscontext.WithClient(context.Background(), "203.0.113.9", "unsent-ios/1.4")
	msg, err := svc.GenerateCustomMessage(ctx, messagedomain.GenerateCustomMessageRequest{
		CustomerUserID: "user-1",
		Tone:           "warm",
		Context:        "old friend",
		RawMessage:     "i miss you",
		WordCount:      120,
	})
	if err != nil {
		t.Fatalf("GenerateCustomMessage: %v", err)
	}
	if msg.GeneratedMessage != gen.output {
		t.Fatalf("generated = %q", msg.GeneratedMessage)
	}

	for _, want := range []string{"Tone: warm", "Context: old friend", "Draft: i miss you", "About 120", "of 250 words"} {
		if !strings.Contains(msg.UserPrompt, want) {
			t.Fatalf("user prompt missing %q: %q", want, msg.UserPrompt)
		}
	}
	if gen.lastUser != msg.UserPrompt {
		t.Fatal("prompt sent to generator differs from returned prompt")
	}

	var logs []messagedomain.MessageLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("find logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("message_logs rows = %d, want 1", len(logs))
	}
	if logs[0].CustomerUserID != "user-1" || logs[0].IPAddress != "203.0.113.9" || logs[0].UserAgent != "unsent-ios/1.4" {
		t.Fatalf("unexpected log row: %+v", logs[0])
	}
	if logs[0].GeneratedMessage != gen.output {
		t.Fatalf("logged message = %q", logs[0].GeneratedMessage)
	}
}

func TestGenerateStructuredMessage(t *testing.T) {
	subs := &stubSubscriptionService{active: map[string]bool{"user-2": true}}
	gen := &stubGenerator{output: "To my sister, thank you."}
	svc, _ := newTestService(t, subs, gen)

	msg, err := svc.GenerateStructuredMessage(context.Background(), messagedomain.GenerateStructuredMessageRequest{
		CustomerUserID:  "user-2",
		Recipient:       "my sister",
		MessageType:     "gratitude",
		AdditionalNotes: "keep it short",
		WordCount:       80,
		Answers: []messagedomain.Answer{
			{Question: "What do you want to say?", SelectedOption: "thank you"},
			{Question: "What memory stands out?", CustomInput: "the summer trip"},
			{Question: "Anything else?"},
		},
	})
	if err != nil {
		t.Fatalf("GenerateStructuredMessage: %v", err)
	}

	if !strings.Contains(msg.SystemPrompt, "within 250 words") {
		t.Fatalf("system prompt missing word cap: %q", msg.SystemPrompt)
	}
	for _, want := range []string{
		"To my sister (gratitude)",
		"What do you want to say? \n->  thank you \n",
		"What memory stands out? \n->  the summer trip \n",
		"Anything else? \n->  (not answered) \n",
	} {
		if !strings.Contains(msg.UserPrompt, want) {
			t.Fatalf("user prompt missing %q: %q", want, msg.UserPrompt)
		}
	}
}

func TestGenerateRequiresActiveSubscription(t *testing.T) {
	subs := &stubSubscriptionService{active: map[string]bool{}}
	gen := &stubGenerator{output: "never used"}
	svc, db := newTestService(t, subs, gen)

	_, err := svc.GenerateCustomMessage(context.Background(), messagedomain.GenerateCustomMessageRequest{
		CustomerUserID: "user-3",
		RawMessage:     "hello",
	})
	if !errors.Is(err, messagedomain.ErrNoActiveSubscription) {
		t.Fatalf("err = %v, want ErrNoActiveSubscription", err)
	}
	if gen.lastUser != "" {
		t.Fatal("generator should not run without a subscription")
	}

	var count int64
	if err := db.Model(&messagedomain.MessageLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("message_logs rows = %d, want 0", count)
	}
}

func TestGenerateMissingCustomerUserID(t *testing.T) {
	svc, _ := newTestService(t, &stubSubscriptionService{}, &stubGenerator{})

	_, err := svc.GenerateStructuredMessage(context.Background(), messagedomain.GenerateStructuredMessageRequest{Recipient: "mom"})
	if !errors.Is(err, messagedomain.ErrMissingCustomerUserID) {
		t.Fatalf("err = %v, want ErrMissingCustomerUserID", err)
	}
}

func TestGenerateModelFailureNotLogged(t *testing.T) {
	subs := &stubSubscriptionService{active: map[string]bool{"user-4": true}}
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	svc, db := newTestService(t, subs, gen)

	_, err := svc.GenerateCustomMessage(context.Background(), messagedomain.GenerateCustomMessageRequest{
		CustomerUserID: "user-4",
		RawMessage:     "hello",
	})
	if err == nil {
		t.Fatal("expected generation error")
	}

	var count int64
	if err := db.Model(&messagedomain.MessageLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed generation logged %d rows", count)
	}
}
