package dto

import (
	"time"

	"github.com/SscSPs/erp_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRateRequest defines the payload for storing a new currency rate.
type CreateRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Rate             decimal.Decimal `json:"rate" binding:"required,decimalpositive"`
	EffectiveDate    time.Time       `json:"effectiveDate" binding:"required"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	IsBidirectional  bool            `json:"isBidirectional"`
	RateType         string          `json:"rateType" binding:"omitempty,oneof=direct cross manual"`
	ConfidenceLevel  string          `json:"confidenceLevel" binding:"omitempty,oneof=high medium low"`
}

// RateResponse defines the API shape of a stored currency rate.
type RateResponse struct {
	RateID           string          `json:"rateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	IsActive         bool            `json:"isActive"`
	IsBidirectional  bool            `json:"isBidirectional"`
	RateType         string          `json:"rateType"`
	ConfidenceLevel  string          `json:"confidenceLevel"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy    string          `json:"lastUpdatedBy"`
}

// ToRateResponse converts a domain.CurrencyRate to RateResponse DTO
func ToRateResponse(rate *domain.CurrencyRate) RateResponse {
	return RateResponse{
		RateID:           rate.RateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		EffectiveDate:    rate.EffectiveDate,
		EndDate:          rate.EndDate,
		IsActive:         rate.IsActive,
		IsBidirectional:  rate.IsBidirectional,
		RateType:         string(rate.RateType),
		ConfidenceLevel:  string(rate.ConfidenceLevel),
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
		LastUpdatedAt:    rate.LastUpdatedAt,
		LastUpdatedBy:    rate.LastUpdatedBy,
	}
}

// ListRatesParams holds filters and pagination for listing stored rates.
type ListRatesParams struct {
	FromCurrencyCode *string `form:"from" binding:"omitempty,len=3"`
	ToCurrencyCode   *string `form:"to" binding:"omitempty,len=3"`
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
}

// ListRatesResponse wraps a page of stored rates.
type ListRatesResponse struct {
	Rates     []RateResponse `json:"rates"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// RateResultResponse is the API shape of a resolved rate.
type RateResultResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Method           string          `json:"method"`
	ConfidenceLevel  string          `json:"confidenceLevel"`
	CalculationPath  []string        `json:"calculationPath,omitempty"`
	SourceRateID     *string         `json:"sourceRateID,omitempty"`
	AsOf             time.Time       `json:"asOf"`
	FromCache        bool            `json:"fromCache"`
}

// ToRateResultResponse converts a domain.RateResult to its response DTO.
func ToRateResultResponse(r *domain.RateResult) RateResultResponse {
	return RateResultResponse{
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		Method:           string(r.Method),
		ConfidenceLevel:  string(r.ConfidenceLevel),
		CalculationPath:  r.CalculationPath,
		SourceRateID:     r.SourceRateID,
		AsOf:             r.AsOf,
		FromCache:        r.FromCache,
	}
}

// ConversionResponse is the API shape of a converted amount.
type ConversionResponse struct {
	OriginalAmount     decimal.Decimal    `json:"originalAmount"`
	ConvertedAmount    decimal.Decimal    `json:"convertedAmount"`
	FormattedOriginal  string             `json:"formattedOriginal"`
	FormattedConverted string             `json:"formattedConverted"`
	RateUsed           RateResultResponse `json:"rateUsed"`
}

// ToConversionResponse converts a domain.ConversionResult to its response DTO.
func ToConversionResponse(c *domain.ConversionResult) ConversionResponse {
	return ConversionResponse{
		OriginalAmount:     c.OriginalAmount,
		ConvertedAmount:    c.ConvertedAmount,
		FormattedOriginal:  c.FormattedOriginal,
		FormattedConverted: c.FormattedConverted,
		RateUsed:           ToRateResultResponse(&c.RateUsed),
	}
}

// RatePathAnalysisResponse reports every resolution path for a pair and the
// one the priority rule would select.
type RatePathAnalysisResponse struct {
	FromCurrencyCode string              `json:"fromCurrencyCode"`
	ToCurrencyCode   string              `json:"toCurrencyCode"`
	AsOf             time.Time           `json:"asOf"`
	Direct           *RateResultResponse `json:"direct,omitempty"`
	Inverse          *RateResultResponse `json:"inverse,omitempty"`
	Cross            *RateResultResponse `json:"cross,omitempty"`
	SelectedMethod   string              `json:"selectedMethod"`
}

// ToRatePathAnalysisResponse converts a domain.RatePathAnalysis to its response DTO.
func ToRatePathAnalysisResponse(a *domain.RatePathAnalysis) RatePathAnalysisResponse {
	resp := RatePathAnalysisResponse{
		FromCurrencyCode: a.FromCurrencyCode,
		ToCurrencyCode:   a.ToCurrencyCode,
		AsOf:             a.AsOf,
		SelectedMethod:   a.SelectedMethod,
	}
	if a.Direct != nil {
		r := ToRateResultResponse(a.Direct)
		resp.Direct = &r
	}
	if a.Inverse != nil {
		r := ToRateResultResponse(a.Inverse)
		resp.Inverse = &r
	}
	if a.Cross != nil {
		r := ToRateResultResponse(a.Cross)
		resp.Cross = &r
	}
	return resp
}
