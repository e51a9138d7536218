package services

import (
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
)

// NewServiceContainer creates and initializes all application services,
// wiring them to the repositories from the provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Case:       NewCaseService(repos.CaseRepo),
		Ledger:     NewLedgerService(repos.TransactionRepo, repos.CaseRepo),
		Allocation: NewAllocationService(repos.TransactionRepo, repos.CaseRepo),
		Split:      NewSplitService(repos.TransactionRepo),
		Validation: NewValidationService(repos.TransactionRepo, repos.CaseRepo),
	}
}
