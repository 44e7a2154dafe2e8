package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/apperrors"
	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	portssvc "github.com/SscSPs/erp_backend_app/internal/core/ports/services"
	"github.com/SscSPs/erp_backend_app/internal/core/services"
	"github.com/SscSPs/erp_backend_app/internal/dto"
	"github.com/SscSPs/erp_backend_app/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindCurrentRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}

func (m *MockRateRepository) FindRateByID(ctx context.Context, rateID string) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}

func (m *MockRateRepository) ListRates(ctx context.Context, fromCurrencyCode, toCurrencyCode *string, limit int, nextToken *string) ([]domain.CurrencyRate, *string, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, limit, nextToken)
	var rates []domain.CurrencyRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]domain.CurrencyRate)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return rates, token, args.Error(2)
}

func (m *MockRateRepository) SaveRate(ctx context.Context, rate domain.CurrencyRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepository) DeactivateRate(ctx context.Context, rateID string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, rateID, updatedByUserID, updatedAt)
	return args.Error(0)
}

// --- Mock RateCacheRepository ---
type MockRateCacheRepository struct {
	mock.Mock
}

func (m *MockRateCacheRepository) FindCacheEntry(ctx context.Context, fromCurrencyCode, toCurrencyCode string, cacheDate time.Time) (*domain.RateCacheEntry, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, cacheDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateCacheEntry), args.Error(1)
}

func (m *MockRateCacheRepository) UpsertCacheEntry(ctx context.Context, entry domain.RateCacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRateCacheRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock CurrencyReaderSvc ---
type MockCurrencyReaderSvc struct {
	mock.Mock
}

func (m *MockCurrencyReaderSvc) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderSvc) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite ---
type RateServiceTestSuite struct {
	suite.Suite
	mockRateRepo    *MockRateRepository
	mockCacheRepo   *MockRateCacheRepository
	mockCurrencySvc *MockCurrencyReaderSvc
	service         portssvc.RateSvcFacade
	asOf            time.Time
}

func defaultRatesConfig() config.RatesConfig {
	return config.RatesConfig{
		BaseCurrency:             "USD",
		BidirectionalEnabled:     true,
		CrossCurrencyEnabled:     true,
		CacheEnabled:             false,
		CacheTTL:                 5 * time.Minute,
		MaxCrossCurrencyHops:     2,
		InverseRatePrecision:     6,
		DefaultCurrencyPrecision: 2,
	}
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockRateRepository)
	suite.mockCacheRepo = new(MockRateCacheRepository)
	suite.mockCurrencySvc = new(MockCurrencyReaderSvc)
	suite.service = services.NewRateService(suite.mockRateRepo, suite.mockCacheRepo, suite.mockCurrencySvc, defaultRatesConfig())
	suite.asOf = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
}

// newServiceWithConfig rebuilds the service for tests that change the config.
func (suite *RateServiceTestSuite) newServiceWithConfig(cfg config.RatesConfig) {
	suite.service = services.NewRateService(suite.mockRateRepo, suite.mockCacheRepo, suite.mockCurrencySvc, cfg)
}

func storedRate(from, to string, rate string, bidirectional bool, confidence domain.ConfidenceLevel) *domain.CurrencyRate {
	return &domain.CurrencyRate{
		RateID:           uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             decimal.RequireFromString(rate),
		EffectiveDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:         true,
		IsBidirectional:  bidirectional,
		RateType:         domain.RateTypeDirect,
		ConfidenceLevel:  confidence,
	}
}

// --- Resolution Tests ---

func (suite *RateServiceTestSuite) TestGetRate_SameCurrency_NoLookups() {
	ctx := context.Background()

	result, err := suite.service.GetRate(ctx, "USD", "USD", suite.asOf)

	suite.Require().NoError(err)
	suite.True(result.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal(domain.MethodSame, result.Method)
	suite.Equal(domain.ConfidenceHigh, result.ConfidenceLevel)
	suite.False(result.FromCache)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCacheRepo.AssertNotCalled(suite.T(), "FindCacheEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestGetRate_DirectHit() {
	ctx := context.Background()
	rate := storedRate("USD", "EUR", "0.9", false, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(rate, nil).Once()

	result, err := suite.service.GetRate(ctx, "usd", "eur", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(domain.MethodDirect, result.Method)
	suite.True(result.Rate.Equal(decimal.RequireFromString("0.9")))
	suite.Equal(domain.ConfidenceHigh, result.ConfidenceLevel)
	suite.Require().NotNil(result.SourceRateID)
	suite.Equal(rate.RateID, *result.SourceRateID)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRate_InverseRounding() {
	ctx := context.Background()
	rate := storedRate("USD", "EUR", "0.9", true, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "EUR", "USD", suite.asOf).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(rate, nil).Once()

	result, err := suite.service.GetRate(ctx, "EUR", "USD", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(domain.MethodInverse, result.Method)
	// 1 / 0.9 rounded to 6 fractional digits
	suite.True(result.Rate.Equal(decimal.RequireFromString("1.111111")), "got %s", result.Rate)
	suite.Equal(domain.ConfidenceHigh, result.ConfidenceLevel)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRate_InverseSkippedWhenNotBidirectional() {
	ctx := context.Background()
	rate := storedRate("USD", "EUR", "0.9", false, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "EUR", "USD", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(rate, nil)

	result, err := suite.service.GetRate(ctx, "EUR", "USD", suite.asOf)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RateServiceTestSuite) TestGetRate_InverseDisabledGlobally() {
	ctx := context.Background()
	cfg := defaultRatesConfig()
	cfg.BidirectionalEnabled = false
	cfg.CrossCurrencyEnabled = false
	suite.newServiceWithConfig(cfg)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "EUR", "USD", suite.asOf).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.GetRate(ctx, "EUR", "USD", suite.asOf)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	// The reversed pair is never looked up when the feature is off.
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate", ctx, "USD", "EUR", suite.asOf)
}

func (suite *RateServiceTestSuite) TestGetRate_CrossViaBase() {
	ctx := context.Background()
	leg1 := storedRate("GBP", "USD", "1.25", false, domain.ConfidenceHigh)
	leg2 := storedRate("USD", "JPY", "150", false, domain.ConfidenceHigh)

	// No direct or inverse path for the requested pair.
	suite.mockRateRepo.On("FindCurrentRate", ctx, "GBP", "JPY", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "JPY", "GBP", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "GBP", "USD", suite.asOf).Return(leg1, nil)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "JPY", suite.asOf).Return(leg2, nil)

	result, err := suite.service.GetRate(ctx, "GBP", "JPY", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(domain.MethodCross, result.Method)
	suite.True(result.Rate.Equal(decimal.RequireFromString("187.5")), "got %s", result.Rate)
	suite.Equal([]string{"GBP", "USD", "JPY"}, result.CalculationPath)
	// Two high-confidence legs still degrade one level for being derived.
	suite.Equal(domain.ConfidenceMedium, result.ConfidenceLevel)
}

func (suite *RateServiceTestSuite) TestGetRate_CrossConfidenceNeverExceedsWeakestLeg() {
	ctx := context.Background()
	leg1 := storedRate("GBP", "USD", "1.25", false, domain.ConfidenceMedium)
	leg2 := storedRate("USD", "JPY", "150", false, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "GBP", "JPY", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "JPY", "GBP", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "GBP", "USD", suite.asOf).Return(leg1, nil)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "JPY", suite.asOf).Return(leg2, nil)

	result, err := suite.service.GetRate(ctx, "GBP", "JPY", suite.asOf)

	suite.Require().NoError(err)
	suite.True(result.ConfidenceLevel.AtMost(domain.MinConfidence(leg1.ConfidenceLevel, leg2.ConfidenceLevel)))
	suite.Equal(domain.ConfidenceLow, result.ConfidenceLevel)
}

func (suite *RateServiceTestSuite) TestGetRate_CrossUsesInverseLeg() {
	ctx := context.Background()
	// GBP->USD is only stored as USD->GBP bidirectional.
	usdGbp := storedRate("USD", "GBP", "0.8", true, domain.ConfidenceHigh)
	usdJpy := storedRate("USD", "JPY", "150", false, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "GBP", "JPY", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "JPY", "GBP", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "GBP", "USD", suite.asOf).Return(nil, apperrors.ErrNotFound)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "GBP", suite.asOf).Return(usdGbp, nil)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "JPY", suite.asOf).Return(usdJpy, nil)

	result, err := suite.service.GetRate(ctx, "GBP", "JPY", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(domain.MethodCross, result.Method)
	// (1 / 0.8) * 150 = 187.5
	suite.True(result.Rate.Equal(decimal.RequireFromString("187.5")), "got %s", result.Rate)
}

func (suite *RateServiceTestSuite) TestGetRate_NoPath_ReturnsNotFound() {
	ctx := context.Background()

	suite.mockRateRepo.On("FindCurrentRate", ctx, mock.Anything, mock.Anything, suite.asOf).Return(nil, apperrors.ErrNotFound)

	result, err := suite.service.GetRate(ctx, "GBP", "JPY", suite.asOf)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RateServiceTestSuite) TestGetRate_RepositoryErrorPropagates() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(nil, expectedErr).Once()

	result, err := suite.service.GetRate(ctx, "USD", "EUR", suite.asOf)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, expectedErr)
}

// --- Cache Tests ---

func (suite *RateServiceTestSuite) TestGetRate_CacheHit_NoRateLookups() {
	ctx := context.Background()
	cfg := defaultRatesConfig()
	cfg.CacheEnabled = true
	suite.newServiceWithConfig(cfg)

	cacheDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	entry := &domain.RateCacheEntry{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		CacheDate:        cacheDate,
		Rate:             decimal.RequireFromString("0.9"),
		Method:           domain.MethodDirect,
		ConfidenceLevel:  domain.ConfidenceHigh,
		CachedAt:         time.Now().UTC(),
		ExpiresAt:        time.Now().UTC().Add(time.Hour),
	}

	suite.mockCacheRepo.On("FindCacheEntry", ctx, "USD", "EUR", cacheDate).Return(entry, nil).Once()

	result, err := suite.service.GetRate(ctx, "USD", "EUR", suite.asOf)

	suite.Require().NoError(err)
	suite.True(result.FromCache)
	suite.True(result.Rate.Equal(entry.Rate))
	suite.Equal(domain.MethodDirect, result.Method)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindCurrentRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCacheRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRate_ExpiredCacheEntry_Recomputes() {
	ctx := context.Background()
	cfg := defaultRatesConfig()
	cfg.CacheEnabled = true
	suite.newServiceWithConfig(cfg)

	cacheDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	stale := &domain.RateCacheEntry{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		CacheDate:        cacheDate,
		Rate:             decimal.RequireFromString("0.85"),
		Method:           domain.MethodDirect,
		ConfidenceLevel:  domain.ConfidenceHigh,
		ExpiresAt:        time.Now().UTC().Add(-time.Minute),
	}
	rate := storedRate("USD", "EUR", "0.9", false, domain.ConfidenceHigh)

	suite.mockCacheRepo.On("FindCacheEntry", ctx, "USD", "EUR", cacheDate).Return(stale, nil).Once()
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(rate, nil).Once()
	suite.mockCacheRepo.On("UpsertCacheEntry", ctx, mock.MatchedBy(func(e domain.RateCacheEntry) bool {
		return e.FromCurrencyCode == "USD" && e.ToCurrencyCode == "EUR" && e.CacheDate.Equal(cacheDate) && e.Rate.Equal(rate.Rate)
	})).Return(nil).Once()

	result, err := suite.service.GetRate(ctx, "USD", "EUR", suite.asOf)

	suite.Require().NoError(err)
	suite.False(result.FromCache)
	suite.True(result.Rate.Equal(decimal.RequireFromString("0.9")))
	suite.mockCacheRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRate_CacheWriteFailureIsNonFatal() {
	ctx := context.Background()
	cfg := defaultRatesConfig()
	cfg.CacheEnabled = true
	suite.newServiceWithConfig(cfg)

	cacheDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	rate := storedRate("USD", "EUR", "0.9", false, domain.ConfidenceHigh)

	suite.mockCacheRepo.On("FindCacheEntry", ctx, "USD", "EUR", cacheDate).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(rate, nil).Once()
	suite.mockCacheRepo.On("UpsertCacheEntry", ctx, mock.AnythingOfType("domain.RateCacheEntry")).Return(assert.AnError).Once()

	result, err := suite.service.GetRate(ctx, "USD", "EUR", suite.asOf)

	suite.Require().NoError(err)
	suite.True(result.Rate.Equal(decimal.RequireFromString("0.9")))
	suite.mockCacheRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRate_CacheLookupFailureTreatedAsMiss() {
	ctx := context.Background()
	cfg := defaultRatesConfig()
	cfg.CacheEnabled = true
	suite.newServiceWithConfig(cfg)

	cacheDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	rate := storedRate("USD", "EUR", "0.9", false, domain.ConfidenceHigh)

	suite.mockCacheRepo.On("FindCacheEntry", ctx, "USD", "EUR", cacheDate).Return(nil, assert.AnError).Once()
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(rate, nil).Once()
	suite.mockCacheRepo.On("UpsertCacheEntry", ctx, mock.AnythingOfType("domain.RateCacheEntry")).Return(nil).Once()

	result, err := suite.service.GetRate(ctx, "USD", "EUR", suite.asOf)

	suite.Require().NoError(err)
	suite.False(result.FromCache)
}

// --- Conversion Tests ---

func (suite *RateServiceTestSuite) TestConvertAmount_FormatsWithTargetPrecision() {
	ctx := context.Background()
	rate := storedRate("USD", "JPY", "150", false, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "JPY", suite.asOf).Return(rate, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "JPY").Return(&domain.Currency{CurrencyCode: "JPY", Precision: 0}, nil).Once()

	result, err := suite.service.ConvertAmount(ctx, decimal.RequireFromString("10.505"), "USD", "JPY", suite.asOf)

	suite.Require().NoError(err)
	suite.True(result.ConvertedAmount.Equal(decimal.RequireFromString("1575.75")))
	suite.Equal("10.51", result.FormattedOriginal)
	suite.Equal("1576", result.FormattedConverted)
	suite.Equal(domain.MethodDirect, result.RateUsed.Method)
}

func (suite *RateServiceTestSuite) TestConvertAmount_UnknownCurrencyFallsBackToDefaultPrecision() {
	ctx := context.Background()
	rate := storedRate("USD", "EUR", "0.9", false, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "EUR", suite.asOf).Return(rate, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)

	result, err := suite.service.ConvertAmount(ctx, decimal.RequireFromString("100"), "USD", "EUR", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal("100", result.FormattedOriginal)
	suite.Equal("90", result.FormattedConverted)
}

func (suite *RateServiceTestSuite) TestConvertAmount_NoPathPropagatesNotFound() {
	ctx := context.Background()

	suite.mockRateRepo.On("FindCurrentRate", ctx, mock.Anything, mock.Anything, suite.asOf).Return(nil, apperrors.ErrNotFound)

	result, err := suite.service.ConvertAmount(ctx, decimal.NewFromInt(100), "GBP", "JPY", suite.asOf)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Analysis Tests ---

func (suite *RateServiceTestSuite) TestAnalyzeRatePaths_ReportsAllPaths() {
	ctx := context.Background()
	direct := storedRate("EUR", "GBP", "0.85", false, domain.ConfidenceHigh)
	reverse := storedRate("GBP", "EUR", "1.18", true, domain.ConfidenceMedium)
	eurUsd := storedRate("EUR", "USD", "1.1", false, domain.ConfidenceHigh)
	usdGbp := storedRate("USD", "GBP", "0.8", false, domain.ConfidenceHigh)

	suite.mockRateRepo.On("FindCurrentRate", ctx, "EUR", "GBP", suite.asOf).Return(direct, nil)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "GBP", "EUR", suite.asOf).Return(reverse, nil)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "EUR", "USD", suite.asOf).Return(eurUsd, nil)
	suite.mockRateRepo.On("FindCurrentRate", ctx, "USD", "GBP", suite.asOf).Return(usdGbp, nil)

	analysis, err := suite.service.AnalyzeRatePaths(ctx, "EUR", "GBP", suite.asOf)

	suite.Require().NoError(err)
	suite.Require().NotNil(analysis.Direct)
	suite.Require().NotNil(analysis.Inverse)
	suite.Require().NotNil(analysis.Cross)
	suite.Equal(string(domain.MethodDirect), analysis.SelectedMethod)
	suite.True(analysis.Cross.Rate.Equal(decimal.RequireFromString("0.88")), "got %s", analysis.Cross.Rate)
	suite.mockCacheRepo.AssertNotCalled(suite.T(), "FindCacheEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestAnalyzeRatePaths_NonePaths() {
	ctx := context.Background()

	suite.mockRateRepo.On("FindCurrentRate", ctx, mock.Anything, mock.Anything, suite.asOf).Return(nil, apperrors.ErrNotFound)

	analysis, err := suite.service.AnalyzeRatePaths(ctx, "GBP", "JPY", suite.asOf)

	suite.Require().NoError(err)
	suite.Nil(analysis.Direct)
	suite.Nil(analysis.Inverse)
	suite.Nil(analysis.Cross)
	suite.Equal("none", analysis.SelectedMethod)
}

// --- Admin Tests ---

func (suite *RateServiceTestSuite) TestCreateRate_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.RequireFromString("0.9"),
		EffectiveDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsBidirectional:  true,
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockRateRepo.On("SaveRate", ctx, mock.MatchedBy(func(r domain.CurrencyRate) bool {
		return r.FromCurrencyCode == "USD" && r.ToCurrencyCode == "EUR" && r.IsActive && r.IsBidirectional && r.CreatedBy == creatorUserID
	})).Return(nil).Once()

	rate, err := suite.service.CreateRate(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.NotEmpty(rate.RateID)
	suite.Equal(domain.RateTypeManual, rate.RateType)
	suite.Equal(domain.ConfidenceHigh, rate.ConfidenceLevel)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestCreateRate_RejectsNonPositiveRate() {
	ctx := context.Background()
	req := dto.CreateRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.Zero,
		EffectiveDate:    suite.asOf,
	}

	rate, err := suite.service.CreateRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestCreateRate_RejectsSamePair() {
	ctx := context.Background()
	req := dto.CreateRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromInt(1),
		EffectiveDate:    suite.asOf,
	}

	rate, err := suite.service.CreateRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateServiceTestSuite) TestCreateRate_RejectsUnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateRateRequest{
		FromCurrencyCode: "XXX",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromInt(1),
		EffectiveDate:    suite.asOf,
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.service.CreateRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestDeactivateRate_Success() {
	ctx := context.Background()
	rate := storedRate("USD", "EUR", "0.9", false, domain.ConfidenceHigh)
	userID := uuid.NewString()

	suite.mockRateRepo.On("FindRateByID", ctx, rate.RateID).Return(rate, nil).Once()
	suite.mockRateRepo.On("DeactivateRate", ctx, rate.RateID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateRate(ctx, rate.RateID, userID)

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestPurgeExpiredCache() {
	ctx := context.Background()

	suite.mockCacheRepo.On("PurgeExpired", ctx, mock.AnythingOfType("time.Time")).Return(int64(7), nil).Once()

	purged, err := suite.service.PurgeExpiredCache(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(7), purged)
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
