package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate is the database row for a stored conversion rate.
// Rate is NUMERIC(18,8); the resolver rounds inverse rates itself.
type CurrencyRate struct {
	RateID           string // Primary Key (UUID)
	FromCurrencyCode string
	ToCurrencyCode   string
	Rate             decimal.Decimal
	EffectiveDate    time.Time
	EndDate          *time.Time // NULL = open-ended
	IsActive         bool
	IsBidirectional  bool
	RateType         string
	ConfidenceLevel  string
	AuditFields
}

// RateCacheEntry is the database row for a cached rate resolution.
// Keyed by (from_currency_code, to_currency_code, cache_date).
type RateCacheEntry struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	CacheDate        time.Time
	Rate             decimal.Decimal
	CalculationMethod string
	ConfidenceLevel  string
	CalculationPath  []string // text[] column
	SourceRateID     *string
	CachedAt         time.Time
	ExpiresAt        time.Time
}
