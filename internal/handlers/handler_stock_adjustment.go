package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_backend_app/internal/apperrors"
	portssvc "github.com/SscSPs/erp_backend_app/internal/core/ports/services"
	"github.com/SscSPs/erp_backend_app/internal/dto"
	"github.com/SscSPs/erp_backend_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// stockAdjustmentHandler handles HTTP requests for the adjustment workflow.
type stockAdjustmentHandler struct {
	stockService portssvc.StockAdjustmentSvcFacade
}

// newStockAdjustmentHandler creates a new stockAdjustmentHandler.
func newStockAdjustmentHandler(ss portssvc.StockAdjustmentSvcFacade) *stockAdjustmentHandler {
	return &stockAdjustmentHandler{
		stockService: ss,
	}
}

// registerStockAdjustmentRoutes registers adjustment, ledger and balance routes.
func registerStockAdjustmentRoutes(rg *gin.RouterGroup, stockService portssvc.StockAdjustmentSvcFacade) {
	h := newStockAdjustmentHandler(stockService)

	adjustments := rg.Group("/stock-adjustments")
	{
		adjustments.POST("", h.createAdjustment)
		adjustments.GET("", h.listAdjustments)
		adjustments.GET("/:adjustmentID", h.getAdjustment)
		adjustments.PUT("/:adjustmentID", h.updateAdjustment)
		adjustments.DELETE("/:adjustmentID", h.deleteAdjustment)
		adjustments.POST("/:adjustmentID/submit", h.submitAdjustment)
		adjustments.POST("/:adjustmentID/approve", h.approveAdjustment)
		adjustments.POST("/:adjustmentID/reject", h.rejectAdjustment)
		adjustments.POST("/:adjustmentID/process", h.processAdjustment)
	}

	rg.GET("/stock-transactions", h.listStockTransactions)
	rg.GET("/item-stocks", h.getItemStock)
}

// respondAdjustmentError maps workflow errors onto HTTP statuses. Transition
// violations carry their own message and map to 409.
func respondAdjustmentError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var transitionErr *apperrors.StateTransitionError
	switch {
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Adjustment not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// createAdjustment godoc
// @Summary Create a stock adjustment draft
// @Description Creates an adjustment document in draft with at least one line; variances are derived
// @Tags stock-adjustments
// @Accept  json
// @Produce  json
// @Param   adjustment body dto.CreateStockAdjustmentRequest true "Adjustment details"
// @Success 201 {object} dto.StockAdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create adjustment"
// @Security BearerAuth
// @Router /stock-adjustments [post]
func (h *stockAdjustmentHandler) createAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	adjustment, err := h.stockService.CreateAdjustment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondAdjustmentError(c, logger, err, "Failed to create adjustment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToStockAdjustmentResponse(adjustment))
}

// getAdjustment godoc
// @Summary Get a stock adjustment
// @Description Retrieves an adjustment document with its lines
// @Tags stock-adjustments
// @Produce  json
// @Param   adjustmentID path string true "Adjustment ID"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve adjustment"
// @Security BearerAuth
// @Router /stock-adjustments/{adjustmentID} [get]
func (h *stockAdjustmentHandler) getAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	adjustment, err := h.stockService.GetAdjustmentByID(c.Request.Context(), c.Param("adjustmentID"))
	if err != nil {
		respondAdjustmentError(c, logger, err, "Failed to retrieve adjustment")
		return
	}

	c.JSON(http.StatusOK, dto.ToStockAdjustmentResponse(adjustment))
}

// listAdjustments godoc
// @Summary List stock adjustments
// @Description Retrieves adjustment headers newest first, optionally filtered by status
// @Tags stock-adjustments
// @Produce  json
// @Param   status query string false "Status filter" Enums(draft, pending, approved, rejected, completed)
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAdjustmentsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to list adjustments"
// @Security BearerAuth
// @Router /stock-adjustments [get]
func (h *stockAdjustmentHandler) listAdjustments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAdjustmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.stockService.ListAdjustments(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list adjustments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list adjustments"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateAdjustment godoc
// @Summary Update a draft adjustment
// @Description Edits the header and reconciles the line set; only drafts are editable
// @Tags stock-adjustments
// @Accept  json
// @Produce  json
// @Param   adjustmentID path string true "Adjustment ID"
// @Param   adjustment body dto.UpdateStockAdjustmentRequest true "Updated details"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 409 {object} map[string]string "Adjustment is not editable"
// @Failure 500 {object} map[string]string "Failed to update adjustment"
// @Security BearerAuth
// @Router /stock-adjustments/{adjustmentID} [put]
func (h *stockAdjustmentHandler) updateAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateStockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	adjustment, err := h.stockService.UpdateAdjustment(c.Request.Context(), c.Param("adjustmentID"), req, userID)
	if err != nil {
		respondAdjustmentError(c, logger, err, "Failed to update adjustment")
		return
	}

	c.JSON(http.StatusOK, dto.ToStockAdjustmentResponse(adjustment))
}

// deleteAdjustment godoc
// @Summary Delete an adjustment
// @Description Removes a draft or rejected adjustment and its lines; completed documents are protected
// @Tags stock-adjustments
// @Produce  json
// @Param   adjustmentID path string true "Adjustment ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 409 {object} map[string]string "Adjustment cannot be deleted"
// @Failure 500 {object} map[string]string "Failed to delete adjustment"
// @Security BearerAuth
// @Router /stock-adjustments/{adjustmentID} [delete]
func (h *stockAdjustmentHandler) deleteAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.stockService.DeleteAdjustment(c.Request.Context(), c.Param("adjustmentID"), userID); err != nil {
		respondAdjustmentError(c, logger, err, "Failed to delete adjustment")
		return
	}

	c.Status(http.StatusNoContent)
}

// transitionHandler wraps the shared plumbing of the four transition endpoints.
func (h *stockAdjustmentHandler) transitionHandler(c *gin.Context, fallback string,
	op func(c *gin.Context, adjustmentID, userID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := op(c, c.Param("adjustmentID"), userID); err != nil {
		respondAdjustmentError(c, logger, err, fallback)
		return
	}
}

// submitAdjustment godoc
// @Summary Submit an adjustment for approval
// @Description Moves a draft adjustment to pending
// @Tags stock-adjustments
// @Produce  json
// @Param   adjustmentID path string true "Adjustment ID"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 409 {object} map[string]string "Adjustment is not a draft"
// @Failure 500 {object} map[string]string "Failed to submit adjustment"
// @Security BearerAuth
// @Router /stock-adjustments/{adjustmentID}/submit [post]
func (h *stockAdjustmentHandler) submitAdjustment(c *gin.Context) {
	h.transitionHandler(c, "Failed to submit adjustment", func(c *gin.Context, adjustmentID, userID string) error {
		adjustment, err := h.stockService.SubmitAdjustment(c.Request.Context(), adjustmentID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToStockAdjustmentResponse(adjustment))
		return nil
	})
}

// approveAdjustment godoc
// @Summary Approve a pending adjustment
// @Description Moves a pending adjustment to approved
// @Tags stock-adjustments
// @Produce  json
// @Param   adjustmentID path string true "Adjustment ID"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 409 {object} map[string]string "Adjustment is not pending"
// @Failure 500 {object} map[string]string "Failed to approve adjustment"
// @Security BearerAuth
// @Router /stock-adjustments/{adjustmentID}/approve [post]
func (h *stockAdjustmentHandler) approveAdjustment(c *gin.Context) {
	h.transitionHandler(c, "Failed to approve adjustment", func(c *gin.Context, adjustmentID, userID string) error {
		adjustment, err := h.stockService.ApproveAdjustment(c.Request.Context(), adjustmentID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToStockAdjustmentResponse(adjustment))
		return nil
	})
}

// rejectAdjustment godoc
// @Summary Reject a pending adjustment
// @Description Moves a pending adjustment to rejected; no stock is affected
// @Tags stock-adjustments
// @Produce  json
// @Param   adjustmentID path string true "Adjustment ID"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 409 {object} map[string]string "Adjustment is not pending"
// @Failure 500 {object} map[string]string "Failed to reject adjustment"
// @Security BearerAuth
// @Router /stock-adjustments/{adjustmentID}/reject [post]
func (h *stockAdjustmentHandler) rejectAdjustment(c *gin.Context) {
	h.transitionHandler(c, "Failed to reject adjustment", func(c *gin.Context, adjustmentID, userID string) error {
		adjustment, err := h.stockService.RejectAdjustment(c.Request.Context(), adjustmentID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToStockAdjustmentResponse(adjustment))
		return nil
	})
}

// processAdjustment godoc
// @Summary Process an approved adjustment
// @Description Atomically rewrites affected stock balances, appends ledger entries and completes the document
// @Tags stock-adjustments
// @Produce  json
// @Param   adjustmentID path string true "Adjustment ID"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 409 {object} map[string]string "Adjustment is not approved"
// @Failure 500 {object} map[string]string "Failed to process adjustment"
// @Security BearerAuth
// @Router /stock-adjustments/{adjustmentID}/process [post]
func (h *stockAdjustmentHandler) processAdjustment(c *gin.Context) {
	h.transitionHandler(c, "Failed to process adjustment", func(c *gin.Context, adjustmentID, userID string) error {
		adjustment, err := h.stockService.ProcessAdjustment(c.Request.Context(), adjustmentID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToStockAdjustmentResponse(adjustment))
		return nil
	})
}

// listStockTransactions godoc
// @Summary List stock ledger entries
// @Description Retrieves append-only ledger entries newest first, with optional filters
// @Tags stock-ledger
// @Produce  json
// @Param   itemID query string false "Item filter"
// @Param   warehouseID query string false "Warehouse filter"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListStockTransactionsResponse
// @Failure 500 {object} map[string]string "Failed to list stock transactions"
// @Security BearerAuth
// @Router /stock-transactions [get]
func (h *stockAdjustmentHandler) listStockTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListStockTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.stockService.ListStockTransactions(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list stock transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stock transactions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getItemStock godoc
// @Summary Get the stock balance for an item in a warehouse
// @Description Retrieves the on-hand quantity for an (item, warehouse) pair
// @Tags stock-ledger
// @Produce  json
// @Param   itemID query string true "Item ID"
// @Param   warehouseID query string true "Warehouse ID"
// @Success 200 {object} dto.ItemStockResponse
// @Failure 400 {object} map[string]string "Missing parameters"
// @Failure 404 {object} map[string]string "No balance recorded"
// @Failure 500 {object} map[string]string "Failed to retrieve item stock"
// @Security BearerAuth
// @Router /item-stocks [get]
func (h *stockAdjustmentHandler) getItemStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stock, err := h.stockService.GetItemStock(c.Request.Context(), c.Query("itemID"), c.Query("warehouseID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No stock balance recorded for this item and warehouse"})
		} else {
			logger.Error("Failed to get item stock", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item stock"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToItemStockResponse(stock))
}
