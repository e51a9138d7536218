package services

import (
	"context"

	"github.com/madegner/estate-ledger/internal/core/domain"
)

// ValidationSvcFacade exposes the read-only invariant validator. It re-derives
// the four ledger invariants from persisted state, independent of the write
// path, so that violations introduced by any code path are detected.
type ValidationSvcFacade interface {
	// Validate recomputes all ledger invariants for a case and reports per-invariant
	// pass/fail with the concrete offending rows.
	Validate(ctx context.Context, caseID string) (*domain.InvariantReport, error)
}
