package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/madegner/estate-ledger/internal/core/domain"
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
	"github.com/madegner/estate-ledger/internal/middleware"
)

// validationService re-derives the ledger invariants from persisted state.
// It is stateless and strictly read-only: a separate type from the mutating
// services so validation can never touch the write path. It may run
// concurrently with ongoing splits; for certification it should be re-run
// after the write committed.
type validationService struct {
	txnRepo  portsrepo.TransactionRepositoryFacade
	caseRepo portsrepo.CaseRepositoryFacade
}

// NewValidationService creates a new ValidationService.
func NewValidationService(txnRepo portsrepo.TransactionRepositoryFacade, caseRepo portsrepo.CaseRepositoryFacade) portssvc.ValidationSvcFacade {
	return &validationService{txnRepo: txnRepo, caseRepo: caseRepo}
}

var _ portssvc.ValidationSvcFacade = (*validationService)(nil)

// Validate recomputes all four ledger invariants for a case:
//  1. per-parent resum: children amounts sum exactly to the parent amount
//  2. global conservation: the childless view sums to the root-only view
//  3. referential: every parent_id points at an existing root
//  4. flat hierarchy: no transaction is both a parent and a child
func (s *validationService) Validate(ctx context.Context, caseID string) (*domain.InvariantReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.caseRepo.FindCaseByID(ctx, caseID); err != nil {
		return nil, err
	}

	report := &domain.InvariantReport{CaseID: caseID}

	mismatches, err := s.txnRepo.FindParentSumMismatches(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check parent sums: %w", err)
	}
	report.ParentMismatches = mismatches
	report.ParentSums = domain.InvariantCheck{
		Name:   "parent_sums",
		Passed: len(mismatches) == 0,
	}
	if len(mismatches) > 0 {
		report.ParentSums.Detail = fmt.Sprintf("%d parents whose children do not resum to the parent amount", len(mismatches))
	}

	activeSum, rootSum, err := s.txnRepo.SumConservation(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check conservation: %w", err)
	}
	report.ActiveSumCents = activeSum
	report.RootSumCents = rootSum
	report.Conservation = domain.InvariantCheck{
		Name:   "conservation",
		Passed: activeSum == rootSum,
	}
	if activeSum != rootSum {
		report.Conservation.Detail = fmt.Sprintf("active sum %d != root sum %d (delta %d)", activeSum, rootSum, activeSum-rootSum)
	}

	orphans, err := s.txnRepo.FindOrphanedChildren(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check referential integrity: %w", err)
	}
	report.OrphanedChildren = orphans
	report.Referential = domain.InvariantCheck{
		Name:   "referential",
		Passed: len(orphans) == 0,
	}
	if len(orphans) > 0 {
		report.Referential.Detail = fmt.Sprintf("%d children referencing a missing or non-root parent", len(orphans))
	}

	nested, err := s.txnRepo.FindNestedParents(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check hierarchy flatness: %w", err)
	}
	report.NestedParents = nested
	report.Acyclic = domain.InvariantCheck{
		Name:   "acyclic",
		Passed: len(nested) == 0,
	}
	if len(nested) > 0 {
		report.Acyclic.Detail = fmt.Sprintf("%d transactions that are both parent and child", len(nested))
	}

	if report.Passed() {
		logger.Debug("Invariant validation passed", slog.String("case_id", caseID))
	} else {
		logger.Warn("Invariant validation failed",
			slog.String("case_id", caseID),
			slog.Bool("parent_sums", report.ParentSums.Passed),
			slog.Bool("conservation", report.Conservation.Passed),
			slog.Bool("referential", report.Referential.Passed),
			slog.Bool("acyclic", report.Acyclic.Passed),
		)
	}
	return report, nil
}
