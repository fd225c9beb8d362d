package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/unsentpro/unsent-api/internal/config"
)

const keyMessageGeneration = "message:generate:%s"

// MessageLimiter throttles AI message generation per customer. A nil limiter
// (rate limiting disabled) allows everything.
type MessageLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewMessageLimiter(cfg config.Config) (*MessageLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.Rate <= 0 || limitCfg.Burst <= 0 {
		return nil, errors.New("message rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &MessageLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.Rate,
		burst:   limitCfg.Burst,
	}, nil
}

func (l *MessageLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow consumes one generation slot for the customer. Redis failures fail
// open; the error is returned for logging.
func (l *MessageLimiter) Allow(ctx context.Context, customerUserID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}

	key := fmt.Sprintf(keyMessageGeneration, strings.TrimSpace(customerUserID))
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		return true, err
	}
	return res.Allowed, nil
}
