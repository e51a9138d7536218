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

// transactionHandler handles HTTP requests for ledger ingestion and reads.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

// registerTransactionRoutes registers ledger ingestion and read routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	cases := rg.Group("/cases")
	{
		cases.POST("/:caseID/transactions", h.createTransaction)
		cases.GET("/:caseID/transactions", h.listTransactions)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.GET("/:transactionID/audit", h.getAuditTrail)
	}
}

// createTransaction godoc
// @Summary Ingest a root transaction
// @Description Ingests one bank ledger transaction into a case and classifies it immediately
// @Tags transactions
// @Accept json
// @Produce json
// @Param caseID path string true "Case ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Router /cases/{caseID}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromCtx(c.Request.Context())
	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), caseID, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		default:
			logger.Error("Failed to create transaction in service", slog.String("case_id", caseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions of a case
// @Description Retrieves a token-paginated slice of a case ledger, newest booking first
// @Tags transactions
// @Produce json
// @Param caseID path string true "Case ID"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token from a previous page"
// @Param rootsOnly query bool false "Restrict to root transactions"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid parameters or pagination token"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /cases/{caseID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), caseID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == 400 {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Failed to list transactions", slog.String("case_id", caseID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves one transaction, with its children when it is a split root
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction from service", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getAuditTrail godoc
// @Summary Get the audit trail of a transaction
// @Description Retrieves the append-only audit records of a transaction, newest first. Works for deleted split children too.
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {array} dto.AuditRecordResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve audit trail"
// @Router /transactions/{transactionID}/audit [get]
func (h *transactionHandler) getAuditTrail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	records, err := h.ledgerService.GetAuditTrail(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get audit trail", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit trail"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditRecordResponses(records))
}
