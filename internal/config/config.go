package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	// Server
	Port        string `env:"PORT" env-default:"8081"`
	AppEnv      string `env:"APP_ENV" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	CORSOrigins string `env:"CORS_ORIGINS" env-default:"*"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// Optional auth (empty disables the check)
	JWTSecret     string `env:"JWT_SECRET"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// Database: memory keeps the seeded mock map
	DBDriver string `env:"DB_DRIVER" env-default:"memory"`
	DBDSN    string `env:"DB_DSN"`

	// RPC boundary
	APIBaseURL string        `env:"API_BASE_URL"`
	RPCTimeout time.Duration `env:"RPC_TIMEOUT" env-default:"10s"`

	// Device-side stores
	StoreBackend  string `env:"STORE_BACKEND" env-default:"file"`
	StoreDir      string `env:"STORE_DIR" env-default:".journey"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	BootstrapDelay time.Duration `env:"BOOTSTRAP_DELAY" env-default:"100ms"`

	// Payment provider identifiers, consumed by build tooling only
	PaymentProductID string `env:"PAYMENT_PRODUCT_ID"`
	PaymentSecretKey string `env:"PAYMENT_SECRET_KEY"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug(".env file loaded")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment || c.AppEnv == EnvTest
}

func (c *Config) LogLevelValue() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
