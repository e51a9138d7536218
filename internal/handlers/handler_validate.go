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

// validationHandler handles HTTP requests for the invariant validator.
type validationHandler struct {
	validationService portssvc.ValidationSvcFacade
}

// newValidationHandler creates a new validationHandler.
func newValidationHandler(vs portssvc.ValidationSvcFacade) *validationHandler {
	return &validationHandler{validationService: vs}
}

// registerValidationRoutes registers the invariant report route.
func registerValidationRoutes(rg *gin.RouterGroup, validationService portssvc.ValidationSvcFacade) {
	h := newValidationHandler(validationService)

	rg.GET("/cases/:caseID/validate", h.validateCase)
}

// validateCase godoc
// @Summary Validate the ledger invariants of a case
// @Description Re-derives the four ledger invariants from persisted state. Returns 200 when all pass and 409 when any invariant fails, with the full report either way.
// @Tags validation
// @Produce json
// @Param caseID path string true "Case ID"
// @Success 200 {object} dto.InvariantReportResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} dto.InvariantReportResponse "One or more invariants failed"
// @Failure 500 {object} map[string]string "Failed to validate case"
// @Router /cases/{caseID}/validate [get]
func (h *validationHandler) validateCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	report, err := h.validationService.Validate(c.Request.Context(), caseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		} else {
			logger.Error("Failed to validate case", slog.String("case_id", caseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate case"})
		}
		return
	}

	status := http.StatusOK
	if !report.Passed() {
		logger.Warn("Ledger invariants failed", slog.String("case_id", caseID))
		status = http.StatusConflict
	}
	c.JSON(status, dto.ToInvariantReportResponse(report))
}
