// Package config provides environment configuration for the sales assistant.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Stock decrement strategies.
const (
	StockAtomic     = "atomic"
	StockOptimistic = "optimistic"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Persistence
	StoreDriver  string
	PostgresDSN  string
	SeedCatalog  bool
	DBMaxOpen    int
	DBMaxIdle    int
	DBConnMaxAge time.Duration
	// StockStrategy picks the inventory decrement: a conditional update or
	// a read-then-swap retry loop.
	StockStrategy string

	// NATS settings
	NATSEnabled  bool
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Redis order events
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisQueue    string

	// JWT settings
	JWTSecret string

	// ERP webhook shared secret; empty refuses every webhook call
	ERPWebhookToken string

	// CORS
	CORSOrigins []string

	// LLM settings
	LLMProvider     string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	AIURL           string
	AIModel         string
	AITemperature   float64
	AIMaxTokens     int
	LLMTimeout      time.Duration

	// Dialogue
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration
	ExtractionHistory  int
	PurchaseKeyword    string
	HistoryCommand     string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration
	ChatRateLimit     int

	// Logging
	LogLevel  string
	LogFormat string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory or one of its parents is applied first when present;
// variables already set in the environment win.
func Load() *Config {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// Persistence
		StoreDriver:  getEnv("STORE_DRIVER", StoreMemory),
		PostgresDSN:  getEnv("POSTGRES_DSN", "postgres://localhost:5432/salesbot?sslmode=disable"),
		SeedCatalog:  getBoolEnv("SEED_CATALOG", true),
		DBMaxOpen:    getIntEnv("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdle:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxAge: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),

		StockStrategy: getEnv("STOCK_STRATEGY", StockAtomic),

		// NATS
		NATSEnabled:  getBoolEnv("NATS_ENABLED", false),
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisQueue:    getEnv("REDIS_QUEUE", "queue:orders"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		ERPWebhookToken: getEnv("ERP_WEBHOOK_TOKEN", ""),
		CORSOrigins:     getListEnv("CORS_ORIGINS"),

		// LLM
		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", "lm-studio"),
		AIURL:           getEnv("AI_URL", "http://localhost:1234/v1"),
		AIModel:         getEnv("AI_MODEL", "llama-3.1-8b-instruct"),
		AITemperature:   getFloatEnv("AI_TEMPERATURE", 0.4),
		AIMaxTokens:     getIntEnv("AI_MAX_TOKENS", 120),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 30*time.Second),

		// Dialogue
		SessionIdleTimeout: getDurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SweepInterval:      getDurationEnv("SESSION_SWEEP_INTERVAL", 30*time.Minute),
		ExtractionHistory:  getIntEnv("EXTRACTION_HISTORY", 20),
		PurchaseKeyword:    getEnv("PURCHASE_KEYWORD", "comprar"),
		HistoryCommand:     getEnv("HISTORY_COMMAND", "/pedidos"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		ChatRateLimit:     getIntEnv("CHAT_RATE_LIMIT", 20),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
