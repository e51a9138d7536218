package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/madegner/estate-ledger/internal/apperrors"
	"github.com/madegner/estate-ledger/internal/core/domain"
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
	"github.com/madegner/estate-ledger/internal/dto"
	"github.com/madegner/estate-ledger/internal/middleware"
)

// ledgerService is the ingestion boundary and read surface of a case ledger.
// Ingestion is the only source of new roots; children are created exclusively
// by the split manager.
type ledgerService struct {
	txnRepo  portsrepo.TransactionRepositoryFacade
	caseRepo portsrepo.CaseRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, caseRepo portsrepo.CaseRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{txnRepo: txnRepo, caseRepo: caseRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateTransaction ingests one root transaction. The transaction is
// classified immediately against the case snapshot so a freshly ingested
// ledger is never silently unbucketed.
func (s *ledgerService) CreateTransaction(ctx context.Context, caseID string, req dto.CreateTransactionRequest, actor string) (*domain.LedgerTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ledgerCase, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	bookingDate, err := dto.ParseDate(req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking date %q", apperrors.ErrValidation, req.BookingDate)
	}

	var serviceDate *time.Time
	if req.ServiceDate != nil {
		d, err := dto.ParseDate(*req.ServiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid service date %q", apperrors.ErrValidation, *req.ServiceDate)
		}
		serviceDate = &d
	}

	var servicePeriod *domain.Period
	if req.ServiceStart != nil || req.ServiceEnd != nil {
		if req.ServiceStart == nil || req.ServiceEnd == nil {
			return nil, fmt.Errorf("%w: service period requires both serviceStart and serviceEnd", apperrors.ErrValidation)
		}
		start, err := dto.ParseDate(*req.ServiceStart)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid service start %q", apperrors.ErrValidation, *req.ServiceStart)
		}
		end, err := dto.ParseDate(*req.ServiceEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid service end %q", apperrors.ErrValidation, *req.ServiceEnd)
		}
		p, err := domain.NewPeriod(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		servicePeriod = &p
	}

	now := time.Now().UTC()
	txn := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		CaseID:        caseID,
		AmountCents:   req.AmountCents,
		BookingDate:   domain.Midnight(bookingDate),
		ServiceDate:   serviceDate,
		ServicePeriod: servicePeriod,
		Description:   req.Description,
		Counterparty:  req.Counterparty,
		Category:      req.Category,
		BankAccount:   req.BankAccount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	txn.Classification = Classify(txn, ledgerCase.RuleFor(txn.Counterparty), ledgerCase.CutoffDate)
	classifiedAt := now
	txn.ClassifiedAt = &classifiedAt

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("case_id", caseID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction ingested",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("case_id", caseID),
		slog.Int64("amount_cents", txn.AmountCents),
		slog.String("bucket", string(txn.Classification.Bucket)),
	)
	return &txn, nil
}

// GetTransaction retrieves one transaction; for a split root its children
// are attached.
func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsRoot() {
		children, err := s.txnRepo.FindChildren(ctx, transactionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load children of %s: %w", transactionID, err)
		}
		txn.Children = children
	}
	return txn, nil
}

// ListTransactions retrieves a paginated slice of a case ledger.
func (s *ledgerService) ListTransactions(ctx context.Context, caseID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.caseRepo.FindCaseByID(ctx, caseID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	transactions, nextToken, err := s.txnRepo.ListTransactionsByCase(ctx, caseID, limit, params.NextToken, params.RootsOnly)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("case_id", caseID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}

// GetAuditTrail retrieves a transaction's audit records, newest first.
func (s *ledgerService) GetAuditTrail(ctx context.Context, transactionID string) ([]domain.AuditRecord, error) {
	if _, err := s.txnRepo.FindTransactionByID(ctx, transactionID); err != nil {
		// The audit log outlives deleted children, so a missing live row still
		// has a readable trail when audit records exist for it.
		records, auditErr := s.txnRepo.FindAuditRecordsByTransaction(ctx, transactionID)
		if auditErr == nil && len(records) > 0 {
			return records, nil
		}
		return nil, err
	}
	return s.txnRepo.FindAuditRecordsByTransaction(ctx, transactionID)
}
