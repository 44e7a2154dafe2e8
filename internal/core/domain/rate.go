package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateType classifies how a stored currency rate was produced.
type RateType string

const (
	RateTypeDirect RateType = "direct"
	RateTypeCross  RateType = "cross"
	RateTypeManual RateType = "manual"
)

// ConfidenceLevel is a qualitative trust tag attached to a resolved rate.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// rank orders confidence levels, higher is more trusted. Unknown levels rank lowest.
func (c ConfidenceLevel) rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// MinConfidence returns the weaker of two confidence levels.
func MinConfidence(a, b ConfidenceLevel) ConfidenceLevel {
	if a.rank() <= b.rank() {
		return a
	}
	return b
}

// Degrade lowers a confidence level by one step, flooring at low.
// Cross-currency rates are derived through an intermediate currency and are
// therefore tagged one level below their weakest input.
func (c ConfidenceLevel) Degrade() ConfidenceLevel {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// AtMost reports whether c is no more trusted than other.
func (c ConfidenceLevel) AtMost(other ConfidenceLevel) bool {
	return c.rank() <= other.rank()
}

// CurrencyRate stores a conversion rate between two currencies valid over an
// effective window. Rows are deactivated rather than deleted so historical
// lookups keep resolving.
type CurrencyRate struct {
	RateID           string          `json:"rateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Positive, >=6 fractional digits precision
	EffectiveDate    time.Time       `json:"effectiveDate"`
	EndDate          *time.Time      `json:"endDate,omitempty"` // nil = open-ended
	IsActive         bool            `json:"isActive"`
	IsBidirectional  bool            `json:"isBidirectional"` // Usable for inverse resolution
	RateType         RateType        `json:"rateType"`
	ConfidenceLevel  ConfidenceLevel `json:"confidenceLevel"`
	AuditFields
}

// CoversDate reports whether the rate's effective window contains the given date.
func (r CurrencyRate) CoversDate(date time.Time) bool {
	if date.Before(r.EffectiveDate) {
		return false
	}
	if r.EndDate != nil && date.After(*r.EndDate) {
		return false
	}
	return true
}

// ResolutionMethod names the path a resolved rate was computed through.
type ResolutionMethod string

const (
	MethodSame    ResolutionMethod = "same"
	MethodDirect  ResolutionMethod = "direct"
	MethodInverse ResolutionMethod = "inverse"
	MethodCross   ResolutionMethod = "cross"
)

// RateResult is a resolved conversion rate for a currency pair on a date.
type RateResult struct {
	FromCurrencyCode string           `json:"fromCurrencyCode"`
	ToCurrencyCode   string           `json:"toCurrencyCode"`
	Rate             decimal.Decimal  `json:"rate"`
	Method           ResolutionMethod `json:"method"`
	ConfidenceLevel  ConfidenceLevel  `json:"confidenceLevel"`
	CalculationPath  []string         `json:"calculationPath,omitempty"` // Currency codes, cross paths only
	SourceRateID     *string          `json:"sourceRateID,omitempty"`    // Back-reference, not ownership
	AsOf             time.Time        `json:"asOf"`
	FromCache        bool             `json:"fromCache"`
}

// RateCacheEntry is a derived, invalidatable projection of a rate lookup.
// It is never authoritative; a purged or expired entry only costs a recompute.
type RateCacheEntry struct {
	FromCurrencyCode string           `json:"fromCurrencyCode"`
	ToCurrencyCode   string           `json:"toCurrencyCode"`
	CacheDate        time.Time        `json:"cacheDate"` // Lookup date truncated to day (UTC)
	Rate             decimal.Decimal  `json:"rate"`
	Method           ResolutionMethod `json:"method"`
	ConfidenceLevel  ConfidenceLevel  `json:"confidenceLevel"`
	CalculationPath  []string         `json:"calculationPath,omitempty"`
	SourceRateID     *string          `json:"sourceRateID,omitempty"`
	CachedAt         time.Time        `json:"cachedAt"`
	ExpiresAt        time.Time        `json:"expiresAt"`
}

// Expired reports whether the entry is past its TTL at the given instant.
func (e RateCacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// ConversionResult is the outcome of converting an amount between currencies.
type ConversionResult struct {
	OriginalAmount     decimal.Decimal `json:"originalAmount"`
	ConvertedAmount    decimal.Decimal `json:"convertedAmount"`
	FormattedOriginal  string          `json:"formattedOriginal"`
	FormattedConverted string          `json:"formattedConverted"`
	RateUsed           RateResult      `json:"rateUsed"`
}

// RatePathAnalysis reports every resolution path for a pair independently of the
// cache, and which one the priority rule (direct > inverse > cross) would select.
type RatePathAnalysis struct {
	FromCurrencyCode string      `json:"fromCurrencyCode"`
	ToCurrencyCode   string      `json:"toCurrencyCode"`
	AsOf             time.Time   `json:"asOf"`
	Direct           *RateResult `json:"direct,omitempty"`
	Inverse          *RateResult `json:"inverse,omitempty"`
	Cross            *RateResult `json:"cross,omitempty"`
	SelectedMethod   string      `json:"selectedMethod"` // "none" when no path resolves
}
