package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"context"

	"github.com/google/uuid"

	"github.com/madegner/estate-ledger/internal/core/domain"
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
	"github.com/madegner/estate-ledger/internal/dto"
	"github.com/madegner/estate-ledger/internal/middleware"
)

// Classify resolves one transaction into an estate bucket against an
// immutable snapshot of the case configuration (contract rule + cutoff).
// It is pure, deterministic and total: absent information degrades to the
// UNRESOLVED terminal state, never to an error. Running it twice on
// unchanged input yields an identical result including provenance.
//
// Fallback chain, first match wins:
//  1. explicit contract-rule ratio for the settlement period
//  2. single service date vs cutoff (only when no service period is given)
//  3. service period vs cutoff, prorated when the cutoff falls inside
//  4. settlement-rhythm inference for in-arrears payers, re-entering rule 3
//     on the implied service month
//  5. no information: UNRESOLVED
func Classify(txn domain.LedgerTransaction, rule *domain.ContractRule, cutoff time.Time) domain.Classification {
	cutoff = domain.Midnight(cutoff)

	if rule != nil {
		if settlement, ok := txn.SettlementPeriod(); ok {
			if ratio, matched := rule.MatchPeriod(settlement); matched {
				note := fmt.Sprintf("contract rule %s fixes ratio %s for %s", rule.RuleID, ratio, settlement)
				return domain.FromRatio(ratio, domain.ProvenanceContractRule, note)
			}
		}
	}

	if txn.ServicePeriod == nil && txn.ServiceDate != nil {
		serviceDate := domain.Midnight(*txn.ServiceDate)
		if serviceDate.Before(cutoff) {
			return domain.Classification{
				Bucket:     domain.BucketOldEstate,
				Provenance: domain.ProvenanceServiceDate,
				Note:       fmt.Sprintf("service date %s before cutoff", serviceDate.Format(time.DateOnly)),
			}
		}
		return domain.Classification{
			Bucket:     domain.BucketNewEstate,
			Provenance: domain.ProvenanceServiceDate,
			Note:       fmt.Sprintf("service date %s on or after cutoff", serviceDate.Format(time.DateOnly)),
		}
	}

	if txn.ServicePeriod != nil {
		return classifyPeriod(*txn.ServicePeriod, cutoff, domain.ProvenancePeriodProrata)
	}

	if rule != nil && rule.LagMonths != nil {
		implied := impliedServiceMonth(txn.BookingDate, *rule.LagMonths)
		return classifyPeriod(implied, cutoff, domain.ProvenanceRhythmInference)
	}

	return domain.Unresolved()
}

// classifyPeriod buckets a service period against the cutoff: wholly before,
// wholly on-or-after, or straddling (prorated into MIXED).
func classifyPeriod(p domain.Period, cutoff time.Time, provenance domain.Provenance) domain.Classification {
	if !p.End.After(cutoff) {
		return domain.Classification{
			Bucket:     domain.BucketOldEstate,
			Provenance: provenance,
			Note:       fmt.Sprintf("period %s wholly before cutoff", p),
		}
	}
	if !p.Start.Before(cutoff) {
		return domain.Classification{
			Bucket:     domain.BucketNewEstate,
			Provenance: provenance,
			Note:       fmt.Sprintf("period %s wholly on or after cutoff", p),
		}
	}
	ratio, err := domain.Prorate(p, cutoff)
	if err != nil {
		// Unreachable for a constructed Period; degrade rather than fail.
		return domain.Classification{Bucket: domain.BucketUnresolved, Provenance: domain.ProvenanceNoRuleMatched, Note: err.Error()}
	}
	note := fmt.Sprintf("prorated %s against cutoff %s", p, cutoff.Format(time.DateOnly))
	return domain.FromRatio(ratio, provenance, note)
}

// impliedServiceMonth derives the service month of an in-arrears booking:
// a booking in month M settles the services of month M-lag.
func impliedServiceMonth(bookingDate time.Time, lagMonths int) domain.Period {
	b := bookingDate.UTC()
	monthStart := time.Date(b.Year(), b.Month(), 1, 0, 0, 0, 0, time.UTC)
	return domain.MonthPeriod(monthStart.AddDate(0, -lagMonths, 0))
}

// allocationService persists resolver results and audits classification changes.
type allocationService struct {
	txnRepo  portsrepo.TransactionRepositoryFacade
	caseRepo portsrepo.CaseRepositoryFacade
}

// NewAllocationService creates a new AllocationService.
func NewAllocationService(txnRepo portsrepo.TransactionRepositoryFacade, caseRepo portsrepo.CaseRepositoryFacade) portssvc.AllocationSvcFacade {
	return &allocationService{txnRepo: txnRepo, caseRepo: caseRepo}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// ClassifyTransaction recomputes one transaction's classification and
// persists it. A result identical to the stored one is a no-op and leaves no
// audit record.
func (s *allocationService) ClassifyTransaction(ctx context.Context, transactionID string, actor string) (*domain.LedgerTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	ledgerCase, err := s.caseRepo.FindCaseByID(ctx, txn.CaseID)
	if err != nil {
		logger.Error("Failed to load case configuration for classification", slog.String("case_id", txn.CaseID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load case configuration: %w", err)
	}

	result := Classify(*txn, ledgerCase.RuleFor(txn.Counterparty), ledgerCase.CutoffDate)
	if result.Equal(txn.Classification) {
		logger.Debug("Classification unchanged", slog.String("transaction_id", transactionID), slog.String("bucket", string(result.Bucket)))
		return txn, nil
	}

	now := time.Now().UTC()
	audit, err := newClassifyAudit(txn, actor, now)
	if err != nil {
		return nil, err
	}
	if err := s.txnRepo.UpdateClassification(ctx, transactionID, result, now, actor, audit); err != nil {
		logger.Error("Failed to persist classification", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist classification: %w", err)
	}

	txn.Classification = result
	txn.ClassifiedAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor

	logger.Info("Transaction classified",
		slog.String("transaction_id", transactionID),
		slog.String("bucket", string(result.Bucket)),
		slog.String("provenance", string(result.Provenance)),
	)
	return txn, nil
}

// ReclassifyCase sweeps the whole ledger of a case. The case configuration is
// snapshotted once up front; every transaction is then classified
// independently, so the sweep is a batch of pure resolver calls followed by
// per-transaction writes.
func (s *allocationService) ReclassifyCase(ctx context.Context, caseID string, actor string) (*dto.ReclassifyResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ledgerCase, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txnRepo.FindAllTransactionsByCase(ctx, caseID)
	if err != nil {
		logger.Error("Failed to load ledger for reclassification", slog.String("case_id", caseID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	resp := &dto.ReclassifyResponse{
		CaseID:      caseID,
		Total:       len(transactions),
		BucketCount: make(map[string]int),
	}

	for i := range transactions {
		txn := &transactions[i]
		result := Classify(*txn, ledgerCase.RuleFor(txn.Counterparty), ledgerCase.CutoffDate)
		resp.BucketCount[string(result.Bucket)]++
		if result.Equal(txn.Classification) {
			continue
		}

		now := time.Now().UTC()
		audit, err := newClassifyAudit(txn, actor, now)
		if err != nil {
			return nil, err
		}
		if err := s.txnRepo.UpdateClassification(ctx, txn.TransactionID, result, now, actor, audit); err != nil {
			logger.Error("Failed to persist classification during sweep", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to persist classification for %s: %w", txn.TransactionID, err)
		}
		resp.Changed++
	}

	logger.Info("Case reclassified",
		slog.String("case_id", caseID),
		slog.Int("total", resp.Total),
		slog.Int("changed", resp.Changed),
	)
	return resp, nil
}

// newClassifyAudit snapshots a transaction's pre-classification state into an
// audit record.
func newClassifyAudit(txn *domain.LedgerTransaction, actor string, now time.Time) (domain.AuditRecord, error) {
	before, err := json.Marshal(txn)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("failed to snapshot transaction %s: %w", txn.TransactionID, err)
	}
	return domain.AuditRecord{
		AuditID:       uuid.NewString(),
		TransactionID: txn.TransactionID,
		Action:        domain.AuditActionClassify,
		Reason:        "classification recomputed",
		Actor:         actor,
		CreatedAt:     now,
		BeforeState:   before,
	}, nil
}
