package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/madegner/estate-ledger/internal/apperrors"
	"github.com/madegner/estate-ledger/internal/core/domain"
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
)

// fakeTransactionRepository is an in-memory double of the transaction
// repository with the same transactional semantics as the pgsql
// implementation: split and unsplit mutate atomically and re-derive the
// conservation invariant before "committing".
type fakeTransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]domain.LedgerTransaction
	audits       []domain.AuditRecord
}

var _ portsrepo.TransactionRepositoryFacade = (*fakeTransactionRepository)(nil)

func newFakeTransactionRepository() *fakeTransactionRepository {
	return &fakeTransactionRepository{transactions: make(map[string]domain.LedgerTransaction)}
}

func (f *fakeTransactionRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (f *fakeTransactionRepository) FindChildren(_ context.Context, parentID string) ([]domain.LedgerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.childrenLocked(parentID), nil
}

func (f *fakeTransactionRepository) childrenLocked(parentID string) []domain.LedgerTransaction {
	children := []domain.LedgerTransaction{}
	for _, txn := range f.transactions {
		if txn.ParentID != nil && *txn.ParentID == parentID {
			children = append(children, txn)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].TransactionID < children[j].TransactionID
	})
	return children
}

func (f *fakeTransactionRepository) ListTransactionsByCase(_ context.Context, caseID string, limit int, _ *string, rootsOnly bool) ([]domain.LedgerTransaction, *string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []domain.LedgerTransaction{}
	for _, txn := range f.transactions {
		if txn.CaseID != caseID {
			continue
		}
		if rootsOnly && txn.ParentID != nil {
			continue
		}
		result = append(result, txn)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TransactionID < result[j].TransactionID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil, nil
}

func (f *fakeTransactionRepository) FindAllTransactionsByCase(_ context.Context, caseID string) ([]domain.LedgerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []domain.LedgerTransaction{}
	for _, txn := range f.transactions {
		if txn.CaseID == caseID {
			result = append(result, txn)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TransactionID < result[j].TransactionID
	})
	return result, nil
}

func (f *fakeTransactionRepository) SaveTransaction(_ context.Context, txn domain.LedgerTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.transactions[txn.TransactionID]; exists {
		return apperrors.ErrDuplicate
	}
	f.transactions[txn.TransactionID] = txn
	return nil
}

func (f *fakeTransactionRepository) UpdateClassification(_ context.Context, transactionID string, c domain.Classification, classifiedAt time.Time, updatedBy string, audit domain.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	txn.Classification = c
	txn.ClassifiedAt = &classifiedAt
	txn.LastUpdatedAt = classifiedAt
	txn.LastUpdatedBy = updatedBy
	f.transactions[transactionID] = txn
	f.audits = append(f.audits, audit)
	return nil
}

func (f *fakeTransactionRepository) CreateSplit(_ context.Context, parent domain.LedgerTransaction, children []domain.LedgerTransaction, audit domain.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.transactions[parent.TransactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.ParentID != nil {
		return fmt.Errorf("%w: transaction %s is itself a split child", apperrors.ErrConflict, parent.TransactionID)
	}
	if len(f.childrenLocked(parent.TransactionID)) > 0 {
		return fmt.Errorf("%w: transaction %s is already split", apperrors.ErrConflict, parent.TransactionID)
	}

	for _, child := range children {
		f.transactions[child.TransactionID] = child
	}
	if err := f.checkConservationLocked(parent.CaseID); err != nil {
		for _, child := range children {
			delete(f.transactions, child.TransactionID)
		}
		return err
	}
	f.audits = append(f.audits, audit)
	return nil
}

func (f *fakeTransactionRepository) RemoveSplit(_ context.Context, parentID string, audit domain.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parent, ok := f.transactions[parentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	children := f.childrenLocked(parentID)
	if len(children) == 0 {
		return fmt.Errorf("%w: transaction %s has no children", apperrors.ErrConflict, parentID)
	}

	for _, child := range children {
		delete(f.transactions, child.TransactionID)
	}
	if err := f.checkConservationLocked(parent.CaseID); err != nil {
		for _, child := range children {
			f.transactions[child.TransactionID] = child
		}
		return err
	}
	f.audits = append(f.audits, audit)
	return nil
}

func (f *fakeTransactionRepository) checkConservationLocked(caseID string) error {
	var activeCents, rootCents int64
	for id, txn := range f.transactions {
		if txn.CaseID != caseID {
			continue
		}
		if txn.ParentID == nil {
			rootCents += txn.AmountCents
		}
		if len(f.childrenLocked(id)) == 0 {
			activeCents += txn.AmountCents
		}
	}
	if activeCents != rootCents {
		return fmt.Errorf("%w: active sum %d != root sum %d for case %s", apperrors.ErrInvariantViolation, activeCents, rootCents, caseID)
	}
	return nil
}

func (f *fakeTransactionRepository) FindParentSumMismatches(_ context.Context, caseID string) ([]domain.ParentSumMismatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mismatches := []domain.ParentSumMismatch{}
	for id, txn := range f.transactions {
		if txn.CaseID != caseID {
			continue
		}
		children := f.childrenLocked(id)
		if len(children) == 0 {
			continue
		}
		var sum int64
		for _, child := range children {
			sum += child.AmountCents
		}
		if sum != txn.AmountCents {
			mismatches = append(mismatches, domain.ParentSumMismatch{
				ParentID:      id,
				ExpectedCents: txn.AmountCents,
				ActualCents:   sum,
				DeltaCents:    sum - txn.AmountCents,
			})
		}
	}
	return mismatches, nil
}

func (f *fakeTransactionRepository) SumConservation(_ context.Context, caseID string) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var activeCents, rootCents int64
	for id, txn := range f.transactions {
		if txn.CaseID != caseID {
			continue
		}
		if txn.ParentID == nil {
			rootCents += txn.AmountCents
		}
		if len(f.childrenLocked(id)) == 0 {
			activeCents += txn.AmountCents
		}
	}
	return activeCents, rootCents, nil
}

func (f *fakeTransactionRepository) FindOrphanedChildren(_ context.Context, caseID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orphans := []string{}
	for id, txn := range f.transactions {
		if txn.CaseID != caseID || txn.ParentID == nil {
			continue
		}
		parent, ok := f.transactions[*txn.ParentID]
		if !ok || parent.ParentID != nil {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}

func (f *fakeTransactionRepository) FindNestedParents(_ context.Context, caseID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nested := []string{}
	for id, txn := range f.transactions {
		if txn.CaseID != caseID || txn.ParentID == nil {
			continue
		}
		if len(f.childrenLocked(id)) > 0 {
			nested = append(nested, id)
		}
	}
	sort.Strings(nested)
	return nested, nil
}

func (f *fakeTransactionRepository) FindAuditRecordsByTransaction(_ context.Context, transactionID string) ([]domain.AuditRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := []domain.AuditRecord{}
	for i := len(f.audits) - 1; i >= 0; i-- {
		if f.audits[i].TransactionID == transactionID {
			records = append(records, f.audits[i])
		}
	}
	return records, nil
}
