package repositories

import (
	"context"

	"github.com/madegner/estate-ledger/internal/core/domain"
)

// CaseReader defines read operations for case configuration data
type CaseReader interface {
	// FindCaseByID retrieves a case with its contract rules loaded.
	FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error)
}

// CaseWriter defines write operations for case configuration data
type CaseWriter interface {
	// SaveCase persists a new case.
	SaveCase(ctx context.Context, c domain.Case) error

	// SaveContractRule persists a new contract rule with its period entries.
	SaveContractRule(ctx context.Context, rule domain.ContractRule) error
}

// CaseRepositoryFacade combines all case-related repository interfaces.
type CaseRepositoryFacade interface {
	CaseReader
	CaseWriter
}
