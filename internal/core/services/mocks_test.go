package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/madegner/estate-ledger/internal/core/domain"
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindChildren(ctx context.Context, parentID string) ([]domain.LedgerTransaction, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByCase(ctx context.Context, caseID string, limit int, nextToken *string, rootsOnly bool) ([]domain.LedgerTransaction, *string, error) {
	args := m.Called(ctx, caseID, limit, nextToken, rootsOnly)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerTransaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) FindAllTransactionsByCase(ctx context.Context, caseID string) ([]domain.LedgerTransaction, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateClassification(ctx context.Context, transactionID string, c domain.Classification, classifiedAt time.Time, updatedBy string, audit domain.AuditRecord) error {
	args := m.Called(ctx, transactionID, c, classifiedAt, updatedBy, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) CreateSplit(ctx context.Context, parent domain.LedgerTransaction, children []domain.LedgerTransaction, audit domain.AuditRecord) error {
	args := m.Called(ctx, parent, children, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) RemoveSplit(ctx context.Context, parentID string, audit domain.AuditRecord) error {
	args := m.Called(ctx, parentID, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindParentSumMismatches(ctx context.Context, caseID string) ([]domain.ParentSumMismatch, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParentSumMismatch), args.Error(1)
}

func (m *MockTransactionRepository) SumConservation(ctx context.Context, caseID string) (int64, int64, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FindOrphanedChildren(ctx context.Context, caseID string) ([]string, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) FindNestedParents(ctx context.Context, caseID string) ([]string, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) FindAuditRecordsByTransaction(ctx context.Context, transactionID string) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

// --- Mock CaseRepository ---
type MockCaseRepository struct {
	mock.Mock
}

var _ portsrepo.CaseRepositoryFacade = (*MockCaseRepository)(nil)

func (m *MockCaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) SaveContractRule(ctx context.Context, rule domain.ContractRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}
