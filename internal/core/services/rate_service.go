package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/apperrors"
	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_backend_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_backend_app/internal/core/ports/services"
	"github.com/SscSPs/erp_backend_app/internal/dto"
	"github.com/SscSPs/erp_backend_app/internal/middleware"
	"github.com/SscSPs/erp_backend_app/internal/platform/config"
	"github.com/SscSPs/erp_backend_app/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultRateListLimit = 20

// rateService resolves conversion rates between currency pairs and manages the
// stored rate rows. Resolution tries direct, then inverse, then cross via the
// base currency, and never falls back to 1:1 when no path exists.
type rateService struct {
	rateRepo    portsrepo.RateRepositoryFacade
	cacheRepo   portsrepo.RateCacheRepository
	currencySvc portssvc.CurrencyReaderSvc
	cfg         config.RatesConfig
}

// NewRateService creates a new rate resolution service.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade, cacheRepo portsrepo.RateCacheRepository, currencySvc portssvc.CurrencyReaderSvc, cfg config.RatesConfig) portssvc.RateSvcFacade {
	return &rateService{
		rateRepo:    rateRepo,
		cacheRepo:   cacheRepo,
		currencySvc: currencySvc,
		cfg:         cfg,
	}
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// normalizePair upper-cases both codes and validates their shape.
func normalizePair(fromCode, toCode string) (string, string, error) {
	from := strings.ToUpper(strings.TrimSpace(fromCode))
	to := strings.ToUpper(strings.TrimSpace(toCode))
	if len(from) != 3 || len(to) != 3 {
		return "", "", fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	return from, to, nil
}

// cacheDateFor truncates a lookup date to its UTC day, the cache key granularity.
func cacheDateFor(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *rateService) GetRate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.RateResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from, to, err := normalizePair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	// Same-currency pairs short-circuit before any repository access.
	if from == to {
		return &domain.RateResult{
			FromCurrencyCode: from,
			ToCurrencyCode:   to,
			Rate:             decimal.NewFromInt(1),
			Method:           domain.MethodSame,
			ConfidenceLevel:  domain.ConfidenceHigh,
			AsOf:             date,
		}, nil
	}

	now := time.Now().UTC()
	cacheDate := cacheDateFor(date)

	if s.cfg.CacheEnabled {
		entry, cacheErr := s.cacheRepo.FindCacheEntry(ctx, from, to, cacheDate)
		if cacheErr != nil && !errors.Is(cacheErr, apperrors.ErrNotFound) {
			// A broken cache only costs a recompute
			logger.Warn("rate cache lookup failed, treating as miss", "from", from, "to", to, "error", cacheErr)
		}
		if cacheErr == nil && entry != nil && !entry.Expired(now) {
			return &domain.RateResult{
				FromCurrencyCode: entry.FromCurrencyCode,
				ToCurrencyCode:   entry.ToCurrencyCode,
				Rate:             entry.Rate,
				Method:           entry.Method,
				ConfidenceLevel:  entry.ConfidenceLevel,
				CalculationPath:  entry.CalculationPath,
				SourceRateID:     entry.SourceRateID,
				AsOf:             date,
				FromCache:        true,
			}, nil
		}
	}

	result, err := s.resolve(ctx, from, to, date, s.cfg.MaxCrossCurrencyHops)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: no conversion path from %s to %s", apperrors.ErrNotFound, from, to)
	}

	if s.cfg.CacheEnabled {
		entry := domain.RateCacheEntry{
			FromCurrencyCode: result.FromCurrencyCode,
			ToCurrencyCode:   result.ToCurrencyCode,
			CacheDate:        cacheDate,
			Rate:             result.Rate,
			Method:           result.Method,
			ConfidenceLevel:  result.ConfidenceLevel,
			CalculationPath:  result.CalculationPath,
			SourceRateID:     result.SourceRateID,
			CachedAt:         now,
			ExpiresAt:        now.Add(s.cfg.CacheTTL),
		}
		if cacheErr := s.cacheRepo.UpsertCacheEntry(ctx, entry); cacheErr != nil {
			// Cache writes are best-effort; the resolved rate is still returned.
			logger.Warn("failed to persist rate cache entry", "from", from, "to", to, "error", cacheErr)
		}
	}

	return result, nil
}

// resolve tries each resolution path in priority order. It returns (nil, nil)
// when no path yields a rate; hops bounds cross-path recursion so legs of a
// cross lookup cannot themselves go cross.
func (s *rateService) resolve(ctx context.Context, from, to string, date time.Time, hops int) (*domain.RateResult, error) {
	if result, err := s.resolveDirect(ctx, from, to, date); err != nil || result != nil {
		return result, err
	}
	if result, err := s.resolveInverse(ctx, from, to, date); err != nil || result != nil {
		return result, err
	}
	return s.resolveCross(ctx, from, to, date, hops)
}

// resolveDirect looks for a stored rate on the requested pair.
func (s *rateService) resolveDirect(ctx context.Context, from, to string, date time.Time) (*domain.RateResult, error) {
	rate, err := s.rateRepo.FindCurrentRate(ctx, from, to, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up direct rate %s/%s: %w", from, to, err)
	}
	return &domain.RateResult{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             rate.Rate,
		Method:           domain.MethodDirect,
		ConfidenceLevel:  rate.ConfidenceLevel,
		SourceRateID:     &rate.RateID,
		AsOf:             date,
	}, nil
}

// resolveInverse looks for a stored rate on the reversed pair and inverts it.
// The reversed row must be flagged bidirectional and the feature must be
// enabled globally.
func (s *rateService) resolveInverse(ctx context.Context, from, to string, date time.Time) (*domain.RateResult, error) {
	if !s.cfg.BidirectionalEnabled {
		return nil, nil
	}
	rate, err := s.rateRepo.FindCurrentRate(ctx, to, from, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up inverse rate %s/%s: %w", to, from, err)
	}
	if !rate.IsBidirectional || rate.Rate.IsZero() {
		return nil, nil
	}
	inverted := decimal.NewFromInt(1).DivRound(rate.Rate, s.cfg.InverseRatePrecision)
	return &domain.RateResult{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             inverted,
		Method:           domain.MethodInverse,
		ConfidenceLevel:  rate.ConfidenceLevel,
		SourceRateID:     &rate.RateID,
		AsOf:             date,
	}, nil
}

// resolveCross multiplies the two legs through the configured base currency.
// Each leg resolves with a reduced hop budget, so with the default budget of
// two the legs are direct-or-inverse only.
func (s *rateService) resolveCross(ctx context.Context, from, to string, date time.Time, hops int) (*domain.RateResult, error) {
	base := strings.ToUpper(s.cfg.BaseCurrency)
	if !s.cfg.CrossCurrencyEnabled || hops < 2 || base == "" || from == base || to == base {
		return nil, nil
	}

	leg1, err := s.resolve(ctx, from, base, date, hops-1)
	if err != nil || leg1 == nil {
		return nil, err
	}
	leg2, err := s.resolve(ctx, base, to, date, hops-1)
	if err != nil || leg2 == nil {
		return nil, err
	}

	confidence := domain.MinConfidence(leg1.ConfidenceLevel, leg2.ConfidenceLevel).Degrade()
	return &domain.RateResult{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             leg1.Rate.Mul(leg2.Rate),
		Method:           domain.MethodCross,
		ConfidenceLevel:  confidence,
		CalculationPath:  []string{from, base, to},
		AsOf:             date,
	}, nil
}

func (s *rateService) ConvertAmount(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date time.Time) (*domain.ConversionResult, error) {
	result, err := s.GetRate(ctx, fromCode, toCode, date)
	if err != nil {
		return nil, err
	}

	converted := amount.Mul(result.Rate)
	return &domain.ConversionResult{
		OriginalAmount:     amount,
		ConvertedAmount:    converted,
		FormattedOriginal:  utils.FormatWithPrecision(amount, s.precisionFor(ctx, result.FromCurrencyCode)),
		FormattedConverted: utils.FormatWithPrecision(converted, s.precisionFor(ctx, result.ToCurrencyCode)),
		RateUsed:           *result,
	}, nil
}

// precisionFor resolves a currency's decimal places, falling back to the
// configured default when the currency row is missing.
func (s *rateService) precisionFor(ctx context.Context, currencyCode string) int {
	currency, err := s.currencySvc.GetCurrencyByCode(ctx, currencyCode)
	if err != nil || currency == nil {
		return s.cfg.DefaultCurrencyPrecision
	}
	return currency.Precision
}

func (s *rateService) AnalyzeRatePaths(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.RatePathAnalysis, error) {
	from, to, err := normalizePair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	analysis := &domain.RatePathAnalysis{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		AsOf:             date,
		SelectedMethod:   "none",
	}

	if from == to {
		analysis.SelectedMethod = string(domain.MethodSame)
		return analysis, nil
	}

	// Each path is computed independently, bypassing the cache.
	if analysis.Direct, err = s.resolveDirect(ctx, from, to, date); err != nil {
		return nil, err
	}
	if analysis.Inverse, err = s.resolveInverse(ctx, from, to, date); err != nil {
		return nil, err
	}
	if analysis.Cross, err = s.resolveCross(ctx, from, to, date, s.cfg.MaxCrossCurrencyHops); err != nil {
		return nil, err
	}

	switch {
	case analysis.Direct != nil:
		analysis.SelectedMethod = string(domain.MethodDirect)
	case analysis.Inverse != nil:
		analysis.SelectedMethod = string(domain.MethodInverse)
	case analysis.Cross != nil:
		analysis.SelectedMethod = string(domain.MethodCross)
	}
	return analysis, nil
}

func (s *rateService) CreateRate(ctx context.Context, req dto.CreateRateRequest, creatorUserID string) (*domain.CurrencyRate, error) {
	from, to, err := normalizePair(req.FromCurrencyCode, req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currencies must differ", apperrors.ErrValidation)
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	if req.EndDate != nil && req.EndDate.Before(req.EffectiveDate) {
		return nil, fmt.Errorf("%w: end date cannot precede effective date", apperrors.ErrValidation)
	}

	// Both currencies must exist before a rate can reference them.
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, from); err != nil {
		return nil, fmt.Errorf("from currency %s: %w", from, err)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, to); err != nil {
		return nil, fmt.Errorf("to currency %s: %w", to, err)
	}

	rateType := domain.RateType(req.RateType)
	if rateType == "" {
		rateType = domain.RateTypeManual
	}
	confidence := domain.ConfidenceLevel(req.ConfidenceLevel)
	if confidence == "" {
		confidence = domain.ConfidenceHigh
	}

	now := time.Now().UTC()
	rate := domain.CurrencyRate{
		RateID:           uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		EffectiveDate:    req.EffectiveDate,
		EndDate:          req.EndDate,
		IsActive:         true,
		IsBidirectional:  req.IsBidirectional,
		RateType:         rateType,
		ConfidenceLevel:  confidence,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create rate in service: %w", err)
	}
	return &rate, nil
}

func (s *rateService) DeactivateRate(ctx context.Context, rateID string, userID string) error {
	if _, err := s.rateRepo.FindRateByID(ctx, rateID); err != nil {
		return fmt.Errorf("failed to find rate for deactivation: %w", err)
	}
	if err := s.rateRepo.DeactivateRate(ctx, rateID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to deactivate rate in service: %w", err)
	}
	return nil
}

func (s *rateService) ListRates(ctx context.Context, params dto.ListRatesParams) (*dto.ListRatesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultRateListLimit
	}

	var from, to *string
	if params.FromCurrencyCode != nil {
		f := strings.ToUpper(*params.FromCurrencyCode)
		from = &f
	}
	if params.ToCurrencyCode != nil {
		t := strings.ToUpper(*params.ToCurrencyCode)
		to = &t
	}

	rates, nextToken, err := s.rateRepo.ListRates(ctx, from, to, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates in service: %w", err)
	}

	resp := &dto.ListRatesResponse{
		Rates:     make([]dto.RateResponse, len(rates)),
		NextToken: nextToken,
	}
	for i := range rates {
		resp.Rates[i] = dto.ToRateResponse(&rates[i])
	}
	return resp, nil
}

func (s *rateService) PurgeExpiredCache(ctx context.Context) (int64, error) {
	purged, err := s.cacheRepo.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired rate cache entries: %w", err)
	}
	return purged, nil
}
