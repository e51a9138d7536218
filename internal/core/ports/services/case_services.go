package services

import (
	"context"

	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/madegner/estate-ledger/internal/dto"
)

// CaseSvcFacade is the thin boundary to externally-owned case configuration:
// the legal cutoff date and the contract rule set. The engine treats both as
// immutable inputs per invocation.
type CaseSvcFacade interface {
	// CreateCase registers a new case with its cutoff date.
	CreateCase(ctx context.Context, req dto.CreateCaseRequest, actor string) (*domain.Case, error)

	// GetCase retrieves a case with its contract rules.
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)

	// AddContractRule attaches a settlement rule to a case.
	AddContractRule(ctx context.Context, caseID string, req dto.CreateContractRuleRequest, actor string) (*domain.ContractRule, error)
}
