package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madegner/estate-ledger/internal/apperrors"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
	"github.com/madegner/estate-ledger/internal/core/services"
	"github.com/madegner/estate-ledger/internal/dto"
	"github.com/madegner/estate-ledger/internal/middleware"
)

// splitHandler handles HTTP requests for split and unsplit operations.
type splitHandler struct {
	splitService portssvc.SplitSvcFacade
}

// newSplitHandler creates a new splitHandler.
func newSplitHandler(ss portssvc.SplitSvcFacade) *splitHandler {
	return &splitHandler{splitService: ss}
}

// RegisterSplitRoutes registers split hierarchy routes.
func RegisterSplitRoutes(rg *gin.RouterGroup, splitService portssvc.SplitSvcFacade) {
	h := newSplitHandler(splitService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/:transactionID/split", h.splitTransaction)
		transactions.POST("/:transactionID/unsplit", h.unsplitTransaction)
	}
}

// splitTransaction godoc
// @Summary Split a root transaction into children
// @Description Decomposes a root transaction into at least two children whose amounts sum exactly to the parent amount
// @Tags splits
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param split body dto.SplitRequest true "Split details"
// @Success 201 {object} dto.SplitResponse
// @Failure 400 {object} map[string]string "Invalid input or child sum mismatch"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not a root or is already split"
// @Failure 500 {object} map[string]string "Failed to split transaction"
// @Router /transactions/{transactionID}/split [post]
func (h *splitHandler) splitTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Split", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromCtx(c.Request.Context())
	childIDs, err := h.splitService.Split(c.Request.Context(), transactionID, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrChildSumMismatch), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotARoot), errors.Is(err, services.ErrAlreadySplit), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvariantViolation):
			logger.Error("Invariant violation during split", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal consistency failure; split rolled back"})
		default:
			logger.Error("Failed to split transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to split transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.SplitResponse{ParentID: transactionID, ChildIDs: childIDs})
}

// unsplitTransaction godoc
// @Summary Reverse a split
// @Description Deletes all children of a parent after snapshotting them into the audit log. Requires confirmLoss when child data would be destroyed.
// @Tags splits
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param unsplit body dto.UnsplitRequest true "Unsplit details"
// @Success 204 "Children removed"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} dto.ConfirmationRequiredResponse "Confirmation required or no children to remove"
// @Failure 500 {object} map[string]string "Failed to unsplit transaction"
// @Router /transactions/{transactionID}/unsplit [post]
func (h *splitHandler) unsplitTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.UnsplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Unsplit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromCtx(c.Request.Context())
	err := h.splitService.Unsplit(c.Request.Context(), transactionID, req, actor)
	if err != nil {
		if cre, ok := apperrors.IsConfirmationRequired(err); ok {
			c.JSON(http.StatusConflict, dto.ConfirmationRequiredResponse{
				Error:          cre.Error(),
				AtRiskChildIDs: cre.AtRiskChildIDs,
			})
			return
		}
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrNoChildren), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvariantViolation):
			logger.Error("Invariant violation during unsplit", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal consistency failure; unsplit rolled back"})
		default:
			logger.Error("Failed to unsplit transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsplit transaction"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
