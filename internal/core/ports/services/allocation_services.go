package services

import (
	"context"

	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/madegner/estate-ledger/internal/dto"
)

// AllocationSvcFacade exposes the allocation resolver: deterministic, total
// classification of transactions into estate buckets. The underlying classify
// step is a pure function; these operations add persistence and audit.
type AllocationSvcFacade interface {
	// ClassifyTransaction recomputes and persists one transaction's classification,
	// appending an audit record when the result changed.
	ClassifyTransaction(ctx context.Context, transactionID string, actor string) (*domain.LedgerTransaction, error)

	// ReclassifyCase sweeps a case's whole ledger, reclassifying every transaction
	// against an immutable snapshot of the case configuration.
	ReclassifyCase(ctx context.Context, caseID string, actor string) (*dto.ReclassifyResponse, error)
}
