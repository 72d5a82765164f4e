package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string `validate:"required"`
	Port         string `validate:"required,numeric"`
	IsProduction bool
	LogLevel     slog.Level
	JWTSecret    string `validate:"required,min=16"`
	JWTIssuer    string

	CORSAllowedOrigins []string `validate:"min=1,dive,required"`
	// RateLimit uses the limiter format, e.g. "100-M" for 100 requests per minute.
	RateLimit        string `validate:"required"`
	WebhookRateLimit string `validate:"required"`

	ExchangeRatesURL             string `validate:"required,url"`
	ExchangeRatesAPIKey          string
	ExchangeRatesTimeout         time.Duration `validate:"gt=0"`
	ExchangeRatesRefreshInterval time.Duration
	FallbackExchangeRates        map[string]decimal.Decimal `validate:"required"`

	PaymentProviderURL    string `validate:"required,url"`
	PaymentProviderAPIKey string
	PaymentWebhookSecret  string
	// PaymentVerifyURL, when set, sends verification calls to a remote function
	// instead of running them in-process.
	PaymentVerifyURL    string `validate:"omitempty,url"`
	PaymentVerifyAPIKey string
	CheckoutReturnURL   string                     `validate:"required,url"`
	CheckoutCancelURL   string                     `validate:"required,url"`
	PlanPrices          map[string]decimal.Decimal `validate:"required"`

	PosthogAPIKey string
	PosthogHost   string

	ActivationTimeout         time.Duration `validate:"gt=0"`
	SubscriptionSweepInterval time.Duration
	CurrencySessionIdle       time.Duration `validate:"gt=0"`
	HousekeepingInterval      time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "smb-suite")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("WEBHOOK_RATE_LIMIT", "60-M")
	v.SetDefault("EXCHANGE_RATES_URL", "https://open.er-api.com/v6/latest/EUR")
	v.SetDefault("EXCHANGE_RATES_API_KEY", "")
	v.SetDefault("EXCHANGE_RATES_TIMEOUT", "10s")
	v.SetDefault("EXCHANGE_RATES_REFRESH_INTERVAL", "1h")
	v.SetDefault("FALLBACK_EXCHANGE_RATES", "EUR:1,USD:1.08,XOF:655.96,GNF:9200")
	v.SetDefault("PAYMENT_PROVIDER_URL", "http://localhost:9090")
	v.SetDefault("PAYMENT_PROVIDER_API_KEY", "")
	v.SetDefault("PAYMENT_WEBHOOK_SECRET", "")
	v.SetDefault("PAYMENT_VERIFY_URL", "")
	v.SetDefault("PAYMENT_VERIFY_API_KEY", "")
	v.SetDefault("CHECKOUT_RETURN_URL", "http://localhost:3000/billing/success")
	v.SetDefault("CHECKOUT_CANCEL_URL", "http://localhost:3000/billing/cancel")
	v.SetDefault("PLAN_PRICES", "free:0,pro:15,business:39")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_HOST", "https://eu.i.posthog.com")
	v.SetDefault("ACTIVATION_TIMEOUT", "2m")
	v.SetDefault("SUBSCRIPTION_SWEEP_INTERVAL", "15m")
	v.SetDefault("CURRENCY_SESSION_IDLE", "30m")
	v.SetDefault("HOUSEKEEPING_INTERVAL", "5m")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:           v.GetString("PGSQL_URL"),
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		LogLevel:              parseLogLevel(v.GetString("LOG_LEVEL")),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTIssuer:             v.GetString("JWT_ISSUER"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:             v.GetString("RATE_LIMIT"),
		WebhookRateLimit:      v.GetString("WEBHOOK_RATE_LIMIT"),
		ExchangeRatesURL:      v.GetString("EXCHANGE_RATES_URL"),
		ExchangeRatesAPIKey:   v.GetString("EXCHANGE_RATES_API_KEY"),
		PaymentProviderURL:    v.GetString("PAYMENT_PROVIDER_URL"),
		PaymentProviderAPIKey: v.GetString("PAYMENT_PROVIDER_API_KEY"),
		PaymentWebhookSecret:  v.GetString("PAYMENT_WEBHOOK_SECRET"),
		PaymentVerifyURL:      v.GetString("PAYMENT_VERIFY_URL"),
		PaymentVerifyAPIKey:   v.GetString("PAYMENT_VERIFY_API_KEY"),
		CheckoutReturnURL:     v.GetString("CHECKOUT_RETURN_URL"),
		CheckoutCancelURL:     v.GetString("CHECKOUT_CANCEL_URL"),
		PosthogAPIKey:         v.GetString("POSTHOG_API_KEY"),
		PosthogHost:           v.GetString("POSTHOG_HOST"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.PaymentWebhookSecret == "" {
		log.Println("Warning: PAYMENT_WEBHOOK_SECRET not set. Payment webhooks will be rejected.")
	}

	cfg.ExchangeRatesTimeout = durationOrDefault(v, "EXCHANGE_RATES_TIMEOUT", 10*time.Second)
	cfg.ExchangeRatesRefreshInterval = durationOrDefault(v, "EXCHANGE_RATES_REFRESH_INTERVAL", time.Hour)
	cfg.ActivationTimeout = durationOrDefault(v, "ACTIVATION_TIMEOUT", 2*time.Minute)
	cfg.SubscriptionSweepInterval = durationOrDefault(v, "SUBSCRIPTION_SWEEP_INTERVAL", 15*time.Minute)
	cfg.CurrencySessionIdle = durationOrDefault(v, "CURRENCY_SESSION_IDLE", 30*time.Minute)
	cfg.HousekeepingInterval = durationOrDefault(v, "HOUSEKEEPING_INTERVAL", 5*time.Minute)

	var err error
	if cfg.FallbackExchangeRates, err = ParseDecimalMap(v.GetString("FALLBACK_EXCHANGE_RATES")); err != nil {
		return nil, fmt.Errorf("invalid FALLBACK_EXCHANGE_RATES: %w", err)
	}
	if cfg.PlanPrices, err = ParseDecimalMap(v.GetString("PLAN_PRICES")); err != nil {
		return nil, fmt.Errorf("invalid PLAN_PRICES: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// durationOrDefault parses key as a duration, falling back to def with a warning.
func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

// ParseDecimalMap parses "KEY:value,KEY:value" lists such as "USD:1.08,XOF:655.957".
func ParseDecimalMap(raw string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, item := range splitList(raw) {
		key, value, ok := strings.Cut(item, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("entry %q is not KEY:value", item)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", item, err)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("entry %q is negative", item)
		}
		out[key] = d
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLogLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", raw)
		return slog.LevelInfo
	}
	return level
}
