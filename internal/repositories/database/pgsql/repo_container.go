package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CaseRepo:        newPgxCaseRepository(dbPool),
	}
}
