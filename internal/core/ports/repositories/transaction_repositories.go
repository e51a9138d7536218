package repositories

import (
	"context"
	"time"

	"github.com/madegner/estate-ledger/internal/core/domain"
)

// TransactionReader defines read operations for ledger transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)

	// FindChildren retrieves all child transactions of a parent, ordered deterministically.
	FindChildren(ctx context.Context, parentID string) ([]domain.LedgerTransaction, error)

	// ListTransactionsByCase retrieves a paginated list of transactions for a case using
	// token-based pagination. rootsOnly restricts the result to the root view of the ledger.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactionsByCase(ctx context.Context, caseID string, limit int, nextToken *string, rootsOnly bool) ([]domain.LedgerTransaction, *string, error)

	// FindAllTransactionsByCase retrieves the entire ledger of a case, for batch
	// reclassification sweeps. Callers are responsible for checkpointing long runs.
	FindAllTransactionsByCase(ctx context.Context, caseID string) ([]domain.LedgerTransaction, error)
}

// TransactionWriter defines write operations for ledger transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new root transaction produced by ingestion.
	SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) error

	// UpdateClassification overwrites a transaction's classification fields and
	// appends the given audit record within one database transaction.
	UpdateClassification(ctx context.Context, transactionID string, c domain.Classification, classifiedAt time.Time, updatedBy string, audit domain.AuditRecord) error
}

// SplitWriter defines the two transactional mutators of the split hierarchy.
// Both re-check their state preconditions under a row lock on the parent and
// re-derive the global conservation invariant before committing; a failed
// invariant check rolls back every row touched.
type SplitWriter interface {
	// CreateSplit inserts all children of a parent plus the split audit record atomically.
	CreateSplit(ctx context.Context, parent domain.LedgerTransaction, children []domain.LedgerTransaction, audit domain.AuditRecord) error

	// RemoveSplit deletes all children of a parent plus writes the unsplit audit
	// record (carrying the full pre-deletion child snapshots) atomically.
	RemoveSplit(ctx context.Context, parentID string, audit domain.AuditRecord) error
}

// ValidationReader defines the read-only queries the invariant validator
// re-derives the ledger invariants from. Kept separate from the write path so
// violations introduced by any code path are detectable.
type ValidationReader interface {
	// FindParentSumMismatches returns every parent whose children no longer resum to its amount.
	FindParentSumMismatches(ctx context.Context, caseID string) ([]domain.ParentSumMismatch, error)

	// SumConservation returns the active (childless) sum and the root-only sum of a case ledger.
	SumConservation(ctx context.Context, caseID string) (activeCents int64, rootCents int64, err error)

	// FindOrphanedChildren returns children whose parent is missing or is itself not a root.
	FindOrphanedChildren(ctx context.Context, caseID string) ([]string, error)

	// FindNestedParents returns transactions that are simultaneously a parent and a child.
	FindNestedParents(ctx context.Context, caseID string) ([]string, error)
}

// AuditReader defines read operations over the append-only audit log.
type AuditReader interface {
	// FindAuditRecordsByTransaction retrieves the audit trail of a transaction, newest first.
	FindAuditRecordsByTransaction(ctx context.Context, transactionID string) ([]domain.AuditRecord, error)
}

// TransactionRepositoryFacade combines all ledger-transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	SplitWriter
	ValidationReader
	AuditReader
}

