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

// caseHandler handles HTTP requests related to case configuration.
type caseHandler struct {
	caseService portssvc.CaseSvcFacade
}

// newCaseHandler creates a new caseHandler.
func newCaseHandler(cs portssvc.CaseSvcFacade) *caseHandler {
	return &caseHandler{caseService: cs}
}

// registerCaseRoutes registers routes related to case configuration.
func registerCaseRoutes(rg *gin.RouterGroup, caseService portssvc.CaseSvcFacade) {
	h := newCaseHandler(caseService)

	cases := rg.Group("/cases")
	{
		cases.POST("", h.createCase)
		cases.GET("/:caseID", h.getCase)
		cases.POST("/:caseID/rules", h.addContractRule)
	}
}

// createCase godoc
// @Summary Register a new case
// @Description Registers a new insolvency case with its legal cutoff date
// @Tags cases
// @Accept json
// @Produce json
// @Param case body dto.CreateCaseRequest true "Case details"
// @Success 201 {object} dto.CaseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create case"
// @Router /cases [post]
func (h *caseHandler) createCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromCtx(c.Request.Context())
	newCase, err := h.caseService.CreateCase(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating case", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create case in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create case"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCaseResponse(newCase))
}

// getCase godoc
// @Summary Get a case by ID
// @Description Retrieves a case with its contract rules
// @Tags cases
// @Produce json
// @Param caseID path string true "Case ID"
// @Success 200 {object} dto.CaseResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to retrieve case"
// @Router /cases/{caseID} [get]
func (h *caseHandler) getCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	ledgerCase, err := h.caseService.GetCase(c.Request.Context(), caseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		} else {
			logger.Error("Failed to get case from service", slog.String("case_id", caseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve case"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCaseResponse(ledgerCase))
}

// addContractRule godoc
// @Summary Add a contract rule to a case
// @Description Attaches a counterparty settlement rule with optional explicit period ratios and arrears lag
// @Tags cases
// @Accept json
// @Produce json
// @Param caseID path string true "Case ID"
// @Param rule body dto.CreateContractRuleRequest true "Contract rule details"
// @Success 201 {object} dto.ContractRuleResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Rule for counterparty already exists"
// @Failure 500 {object} map[string]string "Failed to add contract rule"
// @Router /cases/{caseID}/rules [post]
func (h *caseHandler) addContractRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	var req dto.CreateContractRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddContractRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromCtx(c.Request.Context())
	rule, err := h.caseService.AddContractRule(c.Request.Context(), caseID, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to add contract rule in service", slog.String("case_id", caseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add contract rule"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToContractRuleResponse(rule))
}
