package services

import (
	"context"

	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/madegner/estate-ledger/internal/dto"
)

// LedgerReaderSvc defines read operations over a case ledger.
type LedgerReaderSvc interface {
	// GetTransaction retrieves one transaction, with its children when it is a split root.
	GetTransaction(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)

	// ListTransactions retrieves a paginated slice of a case ledger.
	ListTransactions(ctx context.Context, caseID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetAuditTrail retrieves the audit records of a transaction, newest first.
	GetAuditTrail(ctx context.Context, transactionID string) ([]domain.AuditRecord, error)
}

// LedgerWriterSvc defines the ingestion boundary: the only source of new roots.
type LedgerWriterSvc interface {
	// CreateTransaction ingests one root transaction and classifies it immediately.
	CreateTransaction(ctx context.Context, caseID string, req dto.CreateTransactionRequest, actor string) (*domain.LedgerTransaction, error)
}

// LedgerSvcFacade combines the ledger read and ingestion interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
