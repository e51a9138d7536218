package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madegner/estate-ledger/internal/apperrors"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
	"github.com/madegner/estate-ledger/internal/dto"
	"github.com/madegner/estate-ledger/internal/middleware"
)

// allocationHandler handles HTTP requests for the allocation resolver.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

// newAllocationHandler creates a new allocationHandler.
func newAllocationHandler(as portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{allocationService: as}
}

// registerAllocationRoutes registers classification routes.
func registerAllocationRoutes(rg *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	rg.POST("/transactions/:transactionID/classify", h.classifyTransaction)
	rg.POST("/cases/:caseID/reclassify", h.reclassifyCase)
}

// classifyTransaction godoc
// @Summary Recompute the classification of a transaction
// @Description Runs the allocation fallback chain against current case configuration and persists the result
// @Tags classification
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to classify transaction"
// @Router /transactions/{transactionID}/classify [post]
func (h *allocationHandler) classifyTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	actor := middleware.GetActorFromCtx(c.Request.Context())
	txn, err := h.allocationService.ClassifyTransaction(c.Request.Context(), transactionID, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to classify transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to classify transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reclassifyCase godoc
// @Summary Reclassify a whole case ledger
// @Description Sweeps every transaction of a case against an immutable snapshot of the case configuration
// @Tags classification
// @Produce json
// @Param caseID path string true "Case ID"
// @Success 200 {object} dto.ReclassifyResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to reclassify case"
// @Router /cases/{caseID}/reclassify [post]
func (h *allocationHandler) reclassifyCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	actor := middleware.GetActorFromCtx(c.Request.Context())
	result, err := h.allocationService.ReclassifyCase(c.Request.Context(), caseID, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		} else {
			logger.Error("Failed to reclassify case", slog.String("case_id", caseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reclassify case"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
