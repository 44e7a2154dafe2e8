package mapping

import (
	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/SscSPs/erp_backend_app/internal/models"
)

// ToModelCurrencyRate converts a domain CurrencyRate to a model CurrencyRate.
func ToModelCurrencyRate(d domain.CurrencyRate) models.CurrencyRate {
	return models.CurrencyRate{
		RateID:           d.RateID,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		Rate:             d.Rate,
		EffectiveDate:    d.EffectiveDate,
		EndDate:          d.EndDate,
		IsActive:         d.IsActive,
		IsBidirectional:  d.IsBidirectional,
		RateType:         string(d.RateType),
		ConfidenceLevel:  string(d.ConfidenceLevel),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrencyRate converts a model CurrencyRate to a domain CurrencyRate.
func ToDomainCurrencyRate(m models.CurrencyRate) domain.CurrencyRate {
	return domain.CurrencyRate{
		RateID:           m.RateID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		EffectiveDate:    m.EffectiveDate,
		EndDate:          m.EndDate,
		IsActive:         m.IsActive,
		IsBidirectional:  m.IsBidirectional,
		RateType:         domain.RateType(m.RateType),
		ConfidenceLevel:  domain.ConfidenceLevel(m.ConfidenceLevel),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelRateCacheEntry converts a domain RateCacheEntry to its model row.
func ToModelRateCacheEntry(d domain.RateCacheEntry) models.RateCacheEntry {
	return models.RateCacheEntry{
		FromCurrencyCode:  d.FromCurrencyCode,
		ToCurrencyCode:    d.ToCurrencyCode,
		CacheDate:         d.CacheDate,
		Rate:              d.Rate,
		CalculationMethod: string(d.Method),
		ConfidenceLevel:   string(d.ConfidenceLevel),
		CalculationPath:   d.CalculationPath,
		SourceRateID:      d.SourceRateID,
		CachedAt:          d.CachedAt,
		ExpiresAt:         d.ExpiresAt,
	}
}

// ToDomainRateCacheEntry converts a model RateCacheEntry to its domain form.
func ToDomainRateCacheEntry(m models.RateCacheEntry) domain.RateCacheEntry {
	return domain.RateCacheEntry{
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		CacheDate:        m.CacheDate,
		Rate:             m.Rate,
		Method:           domain.ResolutionMethod(m.CalculationMethod),
		ConfidenceLevel:  domain.ConfidenceLevel(m.ConfidenceLevel),
		CalculationPath:  m.CalculationPath,
		SourceRateID:     m.SourceRateID,
		CachedAt:         m.CachedAt,
		ExpiresAt:        m.ExpiresAt,
	}
}
