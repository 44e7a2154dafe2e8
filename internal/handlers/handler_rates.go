package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/apperrors"
	portssvc "github.com/SscSPs/erp_backend_app/internal/core/ports/services"
	"github.com/SscSPs/erp_backend_app/internal/dto"
	"github.com/SscSPs/erp_backend_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// rateHandler handles HTTP requests related to currency rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{
		rateService: rs,
	}
}

// registerRateRoutes registers routes related to currency rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newRateHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.POST("", h.createRate)
		rates.GET("", h.listRates)
		rates.DELETE("/:rateID", h.deactivateRate)
		rates.GET("/resolve", h.resolveRate)
		rates.GET("/convert", h.convertAmount)
		rates.GET("/analyze", h.analyzeRatePaths)
		rates.POST("/cache/purge", h.purgeExpiredCache)
	}
}

// parseDateParam reads an optional date query parameter, accepting a bare date
// or a full RFC3339 timestamp. A zero time means "now".
func parseDateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, true
	}
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return d.UTC(), true
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return d.UTC(), true
	}
	return time.Time{}, false
}

// createRate godoc
// @Summary Store a new currency rate
// @Description Persists a conversion rate for a currency pair over an effective window
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateRateRequest true "Rate details"
// @Success 201 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 500 {object} map[string]string "Failed to create rate"
// @Security BearerAuth
// @Router /rates [post]
func (h *rateHandler) createRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.rateService.CreateRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rate"})
		}
		return
	}

	logger.Info("Rate created", slog.String("rate_id", rate.RateID),
		slog.String("pair", rate.FromCurrencyCode+"/"+rate.ToCurrencyCode))
	c.JSON(http.StatusCreated, dto.ToRateResponse(rate))
}

// listRates godoc
// @Summary List stored currency rates
// @Description Retrieves stored rates newest first, optionally filtered by pair
// @Tags rates
// @Produce  json
// @Param   from query string false "From currency code"
// @Param   to query string false "To currency code"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListRatesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to list rates"
// @Security BearerAuth
// @Router /rates [get]
func (h *rateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.rateService.ListRates(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rates"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// deactivateRate godoc
// @Summary Deactivate a stored rate
// @Description Marks a rate inactive; the row is preserved for historical lookups
// @Tags rates
// @Produce  json
// @Param   rateID path string true "Rate ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Rate not found"
// @Failure 500 {object} map[string]string "Failed to deactivate rate"
// @Security BearerAuth
// @Router /rates/{rateID} [delete]
func (h *rateHandler) deactivateRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rateID := c.Param("rateID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.rateService.DeactivateRate(c.Request.Context(), rateID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rate not found"})
		} else {
			logger.Error("Failed to deactivate rate", slog.String("rate_id", rateID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate rate"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// resolveRate godoc
// @Summary Resolve the conversion rate for a currency pair
// @Description Tries direct, inverse and cross paths in priority order; never falls back to 1:1
// @Tags rates
// @Produce  json
// @Param   from query string true "From currency code"
// @Param   to query string true "To currency code"
// @Param   date query string false "Lookup date (YYYY-MM-DD or RFC3339), defaults to now"
// @Success 200 {object} dto.RateResultResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "No conversion path"
// @Failure 500 {object} map[string]string "Failed to resolve rate"
// @Security BearerAuth
// @Router /rates/resolve [get]
func (h *rateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	date, ok := parseDateParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date parameter"})
		return
	}

	result, err := h.rateService.GetRate(c.Request.Context(), from, to, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRateResultResponse(result))
}

// convertAmount godoc
// @Summary Convert an amount between currencies
// @Description Resolves a rate and applies it, formatting with each currency's precision
// @Tags rates
// @Produce  json
// @Param   from query string true "From currency code"
// @Param   to query string true "To currency code"
// @Param   amount query string true "Amount to convert"
// @Param   date query string false "Lookup date (YYYY-MM-DD or RFC3339), defaults to now"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "No conversion path"
// @Failure 500 {object} map[string]string "Failed to convert amount"
// @Security BearerAuth
// @Router /rates/convert [get]
func (h *rateHandler) convertAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount parameter"})
		return
	}
	date, ok := parseDateParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date parameter"})
		return
	}

	result, err := h.rateService.ConvertAmount(c.Request.Context(), amount, c.Query("from"), c.Query("to"), date)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToConversionResponse(result))
}

// analyzeRatePaths godoc
// @Summary Analyze all resolution paths for a currency pair
// @Description Computes direct, inverse and cross paths independently, bypassing the cache
// @Tags rates
// @Produce  json
// @Param   from query string true "From currency code"
// @Param   to query string true "To currency code"
// @Param   date query string false "Lookup date (YYYY-MM-DD or RFC3339), defaults to now"
// @Success 200 {object} dto.RatePathAnalysisResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to analyze rate paths"
// @Security BearerAuth
// @Router /rates/analyze [get]
func (h *rateHandler) analyzeRatePaths(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date, ok := parseDateParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date parameter"})
		return
	}

	analysis, err := h.rateService.AnalyzeRatePaths(c.Request.Context(), c.Query("from"), c.Query("to"), date)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to analyze rate paths", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze rate paths"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRatePathAnalysisResponse(analysis))
}

// purgeExpiredCache godoc
// @Summary Purge expired rate cache entries
// @Description Deletes every cache entry past its TTL and reports the count
// @Tags rates
// @Produce  json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} map[string]string "Failed to purge cache"
// @Security BearerAuth
// @Router /rates/cache/purge [post]
func (h *rateHandler) purgeExpiredCache(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	purged, err := h.rateService.PurgeExpiredCache(c.Request.Context())
	if err != nil {
		logger.Error("Failed to purge rate cache", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge cache"})
		return
	}

	logger.Info("Rate cache purged", slog.Int64("entries_removed", purged))
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}
