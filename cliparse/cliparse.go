package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Defaults
const (
	DefaultPort           = 9800
	DefaultDatabaseType   = "postgres"
	DefaultShareBaseURL   = "http://localhost:5173"
	DefaultLLMBaseURL     = "https://openrouter.ai/api/v1"
	DefaultLLMModel       = "openai/gpt-3.5-turbo"
	DefaultRewardContract = "0x5DA0E2A86e4B0A51462B87f448853c428621ab07"
	DefaultRewardAmount   = "100"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	SessionSecret  string
	IdentitySecret string
	IdentityIssuer string
	SlugSalt       string
	ShareBaseURL   string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	PayoutURL      string
	PayoutToken    string
	RewardContract string
	RewardAmount   decimal.Decimal

	LogLevel slog.Level
}

// ParseFlags reads configuration from flags, then the environment (including
// an optional .env file), then defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var rewardAmount, logLevel string

	// Missing .env is fine; real env vars always win
	_ = godotenv.Load()

	fs := flag.NewFlagSet("valconnect", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres or sqlite)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session token signing secret (prefer env)")
	fs.StringVar(&cfg.IdentitySecret, "identity-secret", "", "Identity provider token signing secret (prefer env)")
	fs.StringVar(&cfg.IdentityIssuer, "identity-issuer", "", "Expected identity token issuer")
	fs.StringVar(&cfg.SlugSalt, "slug-salt", "", "Share slug salt (prefer env)")
	fs.StringVar(&cfg.ShareBaseURL, "share-base-url", "", "Base URL for share links")

	// LLM
	fs.StringVar(&cfg.LLMBaseURL, "llm-base-url", "", "OpenAI-compatible API base URL")
	fs.StringVar(&cfg.LLMAPIKey, "llm-api-key", "", "LLM API key (prefer env)")
	fs.StringVar(&cfg.LLMModel, "llm-model", "", "LLM model name")

	// Payouts
	fs.StringVar(&cfg.PayoutURL, "payout-url", "", "Payout relayer URL (empty logs payouts only)")
	fs.StringVar(&cfg.PayoutToken, "payout-token", "", "Payout relayer bearer token (prefer env)")
	fs.StringVar(&cfg.RewardContract, "reward-contract", "", "Reward token contract address")
	fs.StringVar(&rewardAmount, "reward-amount", "", "Reward amount per claim")

	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = strings.ToLower(firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), DefaultDatabaseType))
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database type %q (use postgres or sqlite)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	cfg.SessionSecret = firstNonEmpty(cfg.SessionSecret, os.Getenv("SESSION_SECRET"))
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	cfg.IdentitySecret = firstNonEmpty(cfg.IdentitySecret, os.Getenv("IDENTITY_TOKEN_SECRET"))
	if cfg.IdentitySecret == "" {
		return Config{}, errors.New("IDENTITY_TOKEN_SECRET required")
	}
	if cfg.IdentitySecret == cfg.SessionSecret {
		return Config{}, errors.New("IDENTITY_TOKEN_SECRET must differ from SESSION_SECRET")
	}
	cfg.IdentityIssuer = firstNonEmpty(cfg.IdentityIssuer, os.Getenv("IDENTITY_TOKEN_ISSUER"))

	cfg.SlugSalt = firstNonEmpty(cfg.SlugSalt, os.Getenv("SHARE_SLUG_SALT"))
	if cfg.SlugSalt == "" {
		return Config{}, errors.New("SHARE_SLUG_SALT required")
	}

	cfg.LLMAPIKey = firstNonEmpty(cfg.LLMAPIKey, os.Getenv("OPENAI_API_KEY"))
	if cfg.LLMAPIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY required")
	}

	cfg.ShareBaseURL = strings.TrimRight(firstNonEmpty(cfg.ShareBaseURL, os.Getenv("SHARE_BASE_URL"), DefaultShareBaseURL), "/")
	cfg.LLMBaseURL = strings.TrimRight(firstNonEmpty(cfg.LLMBaseURL, os.Getenv("LLM_BASE_URL"), DefaultLLMBaseURL), "/")
	cfg.LLMModel = firstNonEmpty(cfg.LLMModel, os.Getenv("LLM_MODEL"), DefaultLLMModel)

	cfg.PayoutURL = firstNonEmpty(cfg.PayoutURL, os.Getenv("PAYOUT_RELAYER_URL"))
	cfg.PayoutToken = firstNonEmpty(cfg.PayoutToken, os.Getenv("PAYOUT_RELAYER_TOKEN"))
	cfg.RewardContract = firstNonEmpty(cfg.RewardContract, os.Getenv("REWARD_TOKEN_CONTRACT"), DefaultRewardContract)

	amount, err := decimal.NewFromString(firstNonEmpty(rewardAmount, os.Getenv("REWARD_AMOUNT"), DefaultRewardAmount))
	if err != nil {
		return Config{}, fmt.Errorf("invalid reward amount: %w", err)
	}
	if amount.IsNegative() {
		return Config{}, errors.New("reward amount must not be negative")
	}
	cfg.RewardAmount = amount

	if err := cfg.LogLevel.UnmarshalText([]byte(firstNonEmpty(logLevel, os.Getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
