package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RatesConfig holds every knob the rate resolver needs. It is passed into the
// resolver at construction so resolution stays deterministic and testable
// instead of reading ambient global state.
type RatesConfig struct {
	BaseCurrency             string
	BidirectionalEnabled     bool
	CrossCurrencyEnabled     bool
	CacheEnabled             bool
	CacheTTL                 time.Duration
	MaxCrossCurrencyHops     int
	InverseRatePrecision     int32
	DefaultCurrencyPrecision int
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	RateLimit     string // ulule/limiter formatted rate, e.g. "100-M"

	Rates RatesConfig
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("BIDIRECTIONAL_ENABLED", true)
	viper.SetDefault("CROSS_CURRENCY_ENABLED", true)
	viper.SetDefault("RATE_CACHE_ENABLED", true)
	viper.SetDefault("RATE_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("MAX_CROSS_CURRENCY_HOPS", 2)
	viper.SetDefault("INVERSE_RATE_PRECISION", 6)
	viper.SetDefault("DEFAULT_CURRENCY_PRECISION", 2)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if !cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	cfg.Rates = RatesConfig{
		BaseCurrency:             viper.GetString("BASE_CURRENCY"),
		BidirectionalEnabled:     viper.GetBool("BIDIRECTIONAL_ENABLED"),
		CrossCurrencyEnabled:     viper.GetBool("CROSS_CURRENCY_ENABLED"),
		CacheEnabled:             viper.GetBool("RATE_CACHE_ENABLED"),
		CacheTTL:                 time.Duration(viper.GetInt("RATE_CACHE_TTL_SECONDS")) * time.Second,
		MaxCrossCurrencyHops:     viper.GetInt("MAX_CROSS_CURRENCY_HOPS"),
		InverseRatePrecision:     viper.GetInt32("INVERSE_RATE_PRECISION"),
		DefaultCurrencyPrecision: viper.GetInt("DEFAULT_CURRENCY_PRECISION"),
	}

	return cfg, nil
}
