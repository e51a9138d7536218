package services

import (
	"context"
	"encoding/json"
	"errors"
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

var (
	// ErrNotARoot rejects splitting a transaction that is itself a child.
	ErrNotARoot = errors.New("transaction is not a root and cannot be split")
	// ErrAlreadySplit rejects re-splitting a parent with existing children.
	ErrAlreadySplit = errors.New("transaction already has children; unsplit first")
	// ErrNoChildren rejects unsplitting a parent without children.
	ErrNoChildren = errors.New("transaction has no children to unsplit")
	// ErrChildSumMismatch rejects splits whose children do not resum to the parent amount.
	ErrChildSumMismatch = errors.New("children amounts do not sum to parent amount")
)

// splitService is the split hierarchy manager: it decomposes one root
// transaction into children and reverses the decomposition, both atomically
// and both re-validated against the global conservation invariant inside the
// same unit of work.
type splitService struct {
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewSplitService creates a new SplitService.
func NewSplitService(txnRepo portsrepo.TransactionRepositoryFacade) portssvc.SplitSvcFacade {
	return &splitService{txnRepo: txnRepo}
}

var _ portssvc.SplitSvcFacade = (*splitService)(nil)

// Split decomposes a root transaction into the requested children.
// Preconditions are checked here for precise errors and re-checked by the
// repository under a row lock on the parent, so a racing second split fails
// cleanly instead of corrupting state.
func (s *splitService) Split(ctx context.Context, parentID string, req dto.SplitRequest, actor string) ([]string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parent, err := s.txnRepo.FindTransactionByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsRoot() {
		return nil, fmt.Errorf("%w: %s has parent %s", ErrNotARoot, parentID, *parent.ParentID)
	}

	existing, err := s.txnRepo.FindChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing children: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s has %d children", ErrAlreadySplit, parentID, len(existing))
	}

	var childSum int64
	for _, spec := range req.Children {
		childSum += spec.AmountCents
	}
	if childSum != parent.AmountCents {
		return nil, fmt.Errorf("%w: children sum %d, parent amount %d, delta %d",
			ErrChildSumMismatch, childSum, parent.AmountCents, childSum-parent.AmountCents)
	}

	now := time.Now().UTC()
	children := make([]domain.LedgerTransaction, len(req.Children))
	childIDs := make([]string, len(req.Children))
	for i, spec := range req.Children {
		child := newChildTransaction(parent, spec, actor, now)
		if req.ClassificationMode == dto.ClassificationModeSnapshot {
			// Snapshot at split time: ClassifiedAt equals CreatedAt, so the
			// copy alone does not count as "touched" for the unsplit gate.
			child.Classification = parent.Classification
			snapshotTime := now
			child.ClassifiedAt = &snapshotTime
		}
		children[i] = child
		childIDs[i] = child.TransactionID
	}

	before, err := json.Marshal(parent)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot parent %s: %w", parentID, err)
	}
	audit := domain.AuditRecord{
		AuditID:       uuid.NewString(),
		TransactionID: parentID,
		Action:        domain.AuditActionSplit,
		Reason:        req.Reason,
		Actor:         actor,
		CreatedAt:     now,
		BeforeState:   before,
	}

	if err := s.txnRepo.CreateSplit(ctx, *parent, children, audit); err != nil {
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			// Given the precondition checks this branch must be unreachable;
			// reaching it means an engine bug, so it is surfaced loudly.
			logger.Error("Global conservation invariant failed after split; transaction rolled back",
				slog.String("parent_id", parentID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Transaction split",
		slog.String("parent_id", parentID),
		slog.Int("children", len(children)),
		slog.String("classification_mode", req.ClassificationMode),
	)
	return childIDs, nil
}

// Unsplit deletes a parent's children, snapshotting their full state into an
// immutable audit record first so the decomposition stays forensically
// recoverable. Children that have been reviewed, categorized or reclassified
// gate the operation on explicit confirm_loss consent.
func (s *splitService) Unsplit(ctx context.Context, parentID string, req dto.UnsplitRequest, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	parent, err := s.txnRepo.FindTransactionByID(ctx, parentID)
	if err != nil {
		return err
	}

	children, err := s.txnRepo.FindChildren(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to load children: %w", err)
	}
	if len(children) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChildren, parentID)
	}

	var atRisk []string
	for i := range children {
		if children[i].Touched() {
			atRisk = append(atRisk, children[i].TransactionID)
		}
	}
	if len(atRisk) > 0 && !req.ConfirmLoss {
		return &apperrors.ConfirmationRequiredError{AtRiskChildIDs: atRisk}
	}

	before, err := json.Marshal(struct {
		Parent   *domain.LedgerTransaction  `json:"parent"`
		Children []domain.LedgerTransaction `json:"children"`
	}{Parent: parent, Children: children})
	if err != nil {
		return fmt.Errorf("failed to snapshot children of %s: %w", parentID, err)
	}

	audit := domain.AuditRecord{
		AuditID:       uuid.NewString(),
		TransactionID: parentID,
		Action:        domain.AuditActionUnsplit,
		Reason:        req.Reason,
		Actor:         actor,
		CreatedAt:     time.Now().UTC(),
		BeforeState:   before,
	}

	if err := s.txnRepo.RemoveSplit(ctx, parentID, audit); err != nil {
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			logger.Error("Global conservation invariant failed after unsplit; transaction rolled back",
				slog.String("parent_id", parentID), slog.String("error", err.Error()))
		}
		return err
	}

	logger.Info("Transaction unsplit",
		slog.String("parent_id", parentID),
		slog.Int("deleted_children", len(children)),
		slog.Bool("confirm_loss", req.ConfirmLoss),
	)
	return nil
}

// newChildTransaction builds one child from its spec: dates, case and bank
// linkage come from the parent, identity and descriptive fields are the
// child's own. Classification starts UNRESOLVED; the caller applies the
// snapshot mode when requested.
func newChildTransaction(parent *domain.LedgerTransaction, spec dto.ChildSpec, actor string, now time.Time) domain.LedgerTransaction {
	parentID := parent.TransactionID
	return domain.LedgerTransaction{
		TransactionID:  uuid.NewString(),
		CaseID:         parent.CaseID,
		ParentID:       &parentID,
		AmountCents:    spec.AmountCents,
		BookingDate:    parent.BookingDate,
		ServiceDate:    parent.ServiceDate,
		ServicePeriod:  parent.ServicePeriod,
		Description:    spec.Description,
		Counterparty:   spec.Counterparty,
		Category:       spec.Category,
		BankAccount:    parent.BankAccount,
		Classification: domain.Unresolved(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
}
