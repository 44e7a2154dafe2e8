package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/SscSPs/erp_backend_app/internal/dto"
	"github.com/shopspring/decimal"
)

// RateResolverSvc resolves conversion rates between currency pairs.
// Every method returns apperrors.ErrNotFound when no path yields a rate;
// callers must never assume a 1:1 fallback.
type RateResolverSvc interface {
	// GetRate returns the best available rate for a pair on a date, trying
	// direct, inverse and cross paths in priority order, with caching.
	GetRate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.RateResult, error)

	// ConvertAmount resolves a rate and applies it to an amount, formatting the
	// result with the target currency's configured decimal places.
	ConvertAmount(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date time.Time) (*domain.ConversionResult, error)

	// AnalyzeRatePaths computes all resolution paths independently (ignoring the
	// cache) and reports which one the priority rule would select.
	AnalyzeRatePaths(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.RatePathAnalysis, error)
}

// RateAdminSvc defines administrative operations on stored rates.
type RateAdminSvc interface {
	// CreateRate persists a new rate row after validation.
	CreateRate(ctx context.Context, req dto.CreateRateRequest, creatorUserID string) (*domain.CurrencyRate, error)

	// DeactivateRate marks a rate inactive, preserving it for historical lookups.
	DeactivateRate(ctx context.Context, rateID string, userID string) error

	// ListRates retrieves stored rates with optional pair filters.
	ListRates(ctx context.Context, params dto.ListRatesParams) (*dto.ListRatesResponse, error)

	// PurgeExpiredCache removes expired cache entries, returning the count.
	PurgeExpiredCache(ctx context.Context) (int64, error)
}

// RateSvcFacade combines resolution and administration of currency rates.
type RateSvcFacade interface {
	RateResolverSvc
	RateAdminSvc
}
