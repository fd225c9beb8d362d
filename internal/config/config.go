package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// APIKey is the shared secret callers must present on /api routes.
	APIKey string

	// ValidationMethod selects the purchase validation provider:
	// apple, adapty, revenuecat or none.
	ValidationMethod string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Apple      AppleConfig
	Adapty     AdaptyConfig
	RevenueCat RevenueCatConfig
	OpenAI     OpenAIConfig

	PromptsDir string

	RateLimit RateLimitConfig
}

// AppleConfig carries the App Store Server API credentials.
type AppleConfig struct {
	KeyID      string
	IssuerID   string
	BundleID   string
	PrivateKey string
	BaseURL    string
}

type AdaptyConfig struct {
	APIKey  string
	BaseURL string
}

type RevenueCatConfig struct {
	APIKey    string
	ProjectID string
	BaseURL   string
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Rate          float64
	Burst         int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "unsent-api"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		APIKey: strings.TrimSpace(getenv("API_SECRET_KEY", "")),

		ValidationMethod: normalizeValidationMethod(getenv("VALIDATION_METHOD", MethodNone)),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "postgres"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		Apple: AppleConfig{
			KeyID:      strings.TrimSpace(getenv("APPLE_KEY_ID", "")),
			IssuerID:   strings.TrimSpace(getenv("APPLE_ISSUER_ID", "")),
			BundleID:   strings.TrimSpace(getenv("APPLE_BUNDLE_ID", "")),
			PrivateKey: getenv("APPLE_PRIVATE_KEY", ""),
			BaseURL:    strings.TrimSpace(getenv("APPLE_BASE_URL", "")),
		},
		Adapty: AdaptyConfig{
			APIKey:  strings.TrimSpace(getenv("ADAPTY_API_KEY", "")),
			BaseURL: strings.TrimSpace(getenv("ADAPTY_BASE_URL", "")),
		},
		RevenueCat: RevenueCatConfig{
			APIKey:    strings.TrimSpace(getenv("REVENUECAT_API_KEY", "")),
			ProjectID: strings.TrimSpace(getenv("REVENUECAT_PROJECT_ID", "")),
			BaseURL:   strings.TrimSpace(getenv("REVENUECAT_BASE_URL", "")),
		},
		OpenAI: OpenAIConfig{
			APIKey:      strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			Model:       getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL:     strings.TrimSpace(getenv("OPENAI_BASE_URL", "")),
			MaxTokens:   int(getenvInt64("OPENAI_MAX_TOKENS", 600)),
			Temperature: getenvFloat64("OPENAI_TEMPERATURE", 0.8),
		},

		PromptsDir: getenv("PROMPTS_DIR", "prompts"),

		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       int(getenvInt64("REDIS_DB", 0)),
			Rate:          getenvFloat64("RATE_LIMIT_RATE", 1),
			Burst:         int(getenvInt64("RATE_LIMIT_BURST", 5)),
		},
	}

	return cfg
}

const (
	MethodApple      = "apple"
	MethodAdapty     = "adapty"
	MethodRevenueCat = "revenuecat"
	MethodNone       = "none"
)

func normalizeValidationMethod(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case MethodApple, MethodAdapty, MethodRevenueCat:
		return value
	default:
		return MethodNone
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat64(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
