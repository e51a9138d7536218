package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madegner/estate-ledger/internal/apperrors"
	"github.com/madegner/estate-ledger/internal/core/domain"
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
	"github.com/madegner/estate-ledger/internal/models"
	"github.com/madegner/estate-ledger/internal/utils/mapping"
	"github.com/madegner/estate-ledger/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	repository
}

// newPgxTransactionRepository creates a new repository for ledger transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		repository: repository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, case_id, parent_id, amount_cents,
	booking_date, service_date, service_period_start, service_period_end,
	description, counterparty, category, bank_account,
	bucket, ratio_num, ratio_den, provenance, note,
	classified_at, reviewed_at,
	created_at, created_by, last_updated_at, last_updated_by`

const insertTransactionQuery = `
	INSERT INTO ledger_transactions (
		transaction_id, case_id, parent_id, amount_cents,
		booking_date, service_date, service_period_start, service_period_end,
		description, counterparty, category, bank_account,
		bucket, ratio_num, ratio_den, provenance, note,
		classified_at, reviewed_at,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
`

const insertAuditQuery = `
	INSERT INTO audit_records (audit_id, transaction_id, action, reason, actor, created_at, before_state)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.LedgerTransaction, error) {
	var t models.LedgerTransaction
	err := row.Scan(
		&t.TransactionID,
		&t.CaseID,
		&t.ParentID,
		&t.AmountCents,
		&t.BookingDate,
		&t.ServiceDate,
		&t.ServicePeriodStart,
		&t.ServicePeriodEnd,
		&t.Description,
		&t.Counterparty,
		&t.Category,
		&t.BankAccount,
		&t.Bucket,
		&t.RatioNum,
		&t.RatioDen,
		&t.Provenance,
		&t.Note,
		&t.ClassifiedAt,
		&t.ReviewedAt,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

func transactionInsertArgs(m models.LedgerTransaction) []any {
	return []any{
		m.TransactionID,
		m.CaseID,
		m.ParentID,
		m.AmountCents,
		m.BookingDate,
		m.ServiceDate,
		m.ServicePeriodStart,
		m.ServicePeriodEnd,
		m.Description,
		m.Counterparty,
		m.Category,
		m.BankAccount,
		m.Bucket,
		m.RatioNum,
		m.RatioDen,
		m.Provenance,
		m.Note,
		m.ClassifiedAt,
		m.ReviewedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveTransaction persists a new root transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) error {
	m := mapping.ToModelTransaction(txn)
	_, err := r.Pool.Exec(ctx, insertTransactionQuery, transactionInsertArgs(m)...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindChildren retrieves all children of a parent, ordered by creation time
// then ID so the order is stable.
func (r *PgxTransactionRepository) FindChildren(ctx context.Context, parentID string) ([]domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE parent_id = $1 ORDER BY created_at, transaction_id;`

	rows, err := r.Pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query children of "+parentID, err)
	}
	defer rows.Close()

	children := []models.LedgerTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan child row of "+parentID, err)
		}
		children = append(children, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating child rows of "+parentID, err)
	}

	return mapping.ToDomainTransactionSlice(children), nil
}

// ListTransactionsByCase retrieves a paginated list of transactions for a case using
// token-based pagination. It returns the transactions, a token for the next page, and an error.
func (r *PgxTransactionRepository) ListTransactionsByCase(ctx context.Context, caseID string, limit int, nextToken *string, rootsOnly bool) ([]domain.LedgerTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE case_id = $1`
	if rootsOnly {
		baseQuery += ` AND parent_id IS NULL`
	}
	// Ordering must be stable: booking_date DESC with created_at DESC as tie-breaker.
	orderByClause := `ORDER BY booking_date DESC, created_at DESC`

	args := []interface{}{caseID}
	if nextToken != nil && *nextToken != "" {
		lastBookingDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison is concise and efficient in Postgres.
		baseQuery += ` AND (booking_date, created_at) < ($2, $3)`
		args = append(args, lastBookingDate, lastCreatedAt)
	}
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for case "+caseID, err)
	}
	defer rows.Close()

	fetched := make([]models.LedgerTransaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for case "+caseID, err)
		}
		fetched = append(fetched, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for case "+caseID, err)
	}

	var nextTokenVal *string
	results := fetched
	if len(fetched) > limit {
		// The token points to the last item included in this page; the next
		// query starts strictly after it.
		last := fetched[limit-1]
		token := pagination.EncodeToken(last.BookingDate, last.CreatedAt)
		nextTokenVal = &token
		results = fetched[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// FindAllTransactionsByCase retrieves the entire ledger of a case.
func (r *PgxTransactionRepository) FindAllTransactionsByCase(ctx context.Context, caseID string) ([]domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE case_id = $1 ORDER BY booking_date, created_at, transaction_id;`

	rows, err := r.Pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query all transactions for case "+caseID, err)
	}
	defer rows.Close()

	all := []models.LedgerTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for case "+caseID, err)
		}
		all = append(all, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for case "+caseID, err)
	}

	return mapping.ToDomainTransactionSlice(all), nil
}

// UpdateClassification overwrites a transaction's classification columns and
// appends the audit record in one database transaction.
func (r *PgxTransactionRepository) UpdateClassification(ctx context.Context, transactionID string, c domain.Classification, classifiedAt time.Time, updatedBy string, audit domain.AuditRecord) error {
	var ratioNum, ratioDen *int64
	if c.Ratio != nil {
		num := c.Ratio.Num
		den := c.Ratio.Den
		ratioNum = &num
		ratioDen = &den
	}

	updateQuery := `
		UPDATE ledger_transactions
		SET bucket = $2, ratio_num = $3, ratio_den = $4, provenance = $5, note = $6,
		    classified_at = $7, last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1;
	`
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateQuery,
			transactionID,
			string(c.Bucket),
			ratioNum,
			ratioDen,
			string(c.Provenance),
			c.Note,
			classifiedAt,
			updatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update classification of "+transactionID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		return insertAuditInTx(ctx, tx, audit)
	})
}

// CreateSplit inserts all children of a parent plus the split audit record
// atomically. The parent row is locked and the preconditions re-checked under
// the lock, and the conservation invariant is re-derived from the database
// before commit.
func (r *PgxTransactionRepository) CreateSplit(ctx context.Context, parent domain.LedgerTransaction, children []domain.LedgerTransaction, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		locked, err := lockTransactionRow(ctx, tx, parent.TransactionID)
		if err != nil {
			return err
		}
		if locked.ParentID != nil {
			return fmt.Errorf("%w: transaction %s is itself a split child", apperrors.ErrConflict, parent.TransactionID)
		}

		var childCount int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_transactions WHERE parent_id = $1;`, parent.TransactionID).Scan(&childCount); err != nil {
			return apperrors.NewAppError(500, "failed to count children of "+parent.TransactionID, err)
		}
		if childCount > 0 {
			return fmt.Errorf("%w: transaction %s is already split", apperrors.ErrConflict, parent.TransactionID)
		}

		batch := &pgx.Batch{}
		for _, child := range children {
			batch.Queue(insertTransactionQuery, transactionInsertArgs(mapping.ToModelTransaction(child))...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert split children of "+parent.TransactionID, err)
		}

		if err := checkConservationInTx(ctx, tx, parent.CaseID); err != nil {
			return err
		}

		return insertAuditInTx(ctx, tx, audit)
	})
}

// RemoveSplit deletes all children of a parent and writes the unsplit audit
// record atomically. The audit record carries the pre-deletion child
// snapshots; it is the only remaining trace of the children after commit.
func (r *PgxTransactionRepository) RemoveSplit(ctx context.Context, parentID string, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		locked, err := lockTransactionRow(ctx, tx, parentID)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM ledger_transactions WHERE parent_id = $1;`, parentID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete children of "+parentID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: transaction %s has no children", apperrors.ErrConflict, parentID)
		}

		if err := checkConservationInTx(ctx, tx, locked.CaseID); err != nil {
			return err
		}

		return insertAuditInTx(ctx, tx, audit)
	})
}

// lockTransactionRow loads a transaction row FOR UPDATE inside tx.
func lockTransactionRow(ctx context.Context, tx pgx.Tx, transactionID string) (models.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE transaction_id = $1 FOR UPDATE;`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LedgerTransaction{}, apperrors.ErrNotFound
		}
		return models.LedgerTransaction{}, apperrors.NewAppError(500, "failed to lock transaction "+transactionID, err)
	}
	return m, nil
}

// checkConservationInTx re-derives invariant 2 inside the surrounding database
// transaction: the sum over active (childless) transactions must equal the sum
// over roots. A mismatch rolls the whole mutation back via the caller's defer.
func checkConservationInTx(ctx context.Context, tx pgx.Tx, caseID string) error {
	query := `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE NOT EXISTS (
				SELECT 1 FROM ledger_transactions c WHERE c.parent_id = t.transaction_id
			)), 0) AS active_cents,
			COALESCE(SUM(amount_cents) FILTER (WHERE parent_id IS NULL), 0) AS root_cents
		FROM ledger_transactions t
		WHERE case_id = $1;
	`
	var activeCents, rootCents int64
	if err := tx.QueryRow(ctx, query, caseID).Scan(&activeCents, &rootCents); err != nil {
		return apperrors.NewAppError(500, "failed to re-derive conservation sums for case "+caseID, err)
	}
	if activeCents != rootCents {
		return fmt.Errorf("%w: active sum %d != root sum %d for case %s", apperrors.ErrInvariantViolation, activeCents, rootCents, caseID)
	}
	return nil
}

// insertAuditInTx appends one audit record inside tx.
func insertAuditInTx(ctx context.Context, tx pgx.Tx, audit domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(audit)
	_, err := tx.Exec(ctx, insertAuditQuery,
		m.AuditID,
		m.TransactionID,
		m.Action,
		m.Reason,
		m.Actor,
		m.CreatedAt,
		m.BeforeState,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit record for "+m.TransactionID, err)
	}
	return nil
}

// FindParentSumMismatches returns every parent whose children no longer resum
// to its amount.
func (r *PgxTransactionRepository) FindParentSumMismatches(ctx context.Context, caseID string) ([]domain.ParentSumMismatch, error) {
	query := `
		SELECT p.transaction_id, p.amount_cents, SUM(c.amount_cents)
		FROM ledger_transactions p
		JOIN ledger_transactions c ON c.parent_id = p.transaction_id
		WHERE p.case_id = $1
		GROUP BY p.transaction_id, p.amount_cents
		HAVING SUM(c.amount_cents) <> p.amount_cents
		ORDER BY p.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query parent sum mismatches for case "+caseID, err)
	}
	defer rows.Close()

	mismatches := []domain.ParentSumMismatch{}
	for rows.Next() {
		var m domain.ParentSumMismatch
		if err := rows.Scan(&m.ParentID, &m.ExpectedCents, &m.ActualCents); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan parent sum mismatch row for case "+caseID, err)
		}
		m.DeltaCents = m.ActualCents - m.ExpectedCents
		mismatches = append(mismatches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating parent sum mismatch rows for case "+caseID, err)
	}
	return mismatches, nil
}

// SumConservation returns the active (childless) sum and the root-only sum of
// a case ledger.
func (r *PgxTransactionRepository) SumConservation(ctx context.Context, caseID string) (int64, int64, error) {
	query := `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE NOT EXISTS (
				SELECT 1 FROM ledger_transactions c WHERE c.parent_id = t.transaction_id
			)), 0) AS active_cents,
			COALESCE(SUM(amount_cents) FILTER (WHERE parent_id IS NULL), 0) AS root_cents
		FROM ledger_transactions t
		WHERE case_id = $1;
	`
	var activeCents, rootCents int64
	if err := r.Pool.QueryRow(ctx, query, caseID).Scan(&activeCents, &rootCents); err != nil {
		return 0, 0, apperrors.NewAppError(500, "failed to query conservation sums for case "+caseID, err)
	}
	return activeCents, rootCents, nil
}

// FindOrphanedChildren returns children whose parent row is missing or is
// itself not a root.
func (r *PgxTransactionRepository) FindOrphanedChildren(ctx context.Context, caseID string) ([]string, error) {
	query := `
		SELECT c.transaction_id
		FROM ledger_transactions c
		LEFT JOIN ledger_transactions p ON p.transaction_id = c.parent_id
		WHERE c.case_id = $1 AND c.parent_id IS NOT NULL
		  AND (p.transaction_id IS NULL OR p.parent_id IS NOT NULL)
		ORDER BY c.transaction_id;
	`
	return r.queryIDs(ctx, query, caseID, "orphaned children")
}

// FindNestedParents returns transactions that are simultaneously a parent and
// a child.
func (r *PgxTransactionRepository) FindNestedParents(ctx context.Context, caseID string) ([]string, error) {
	query := `
		SELECT DISTINCT t.transaction_id
		FROM ledger_transactions t
		JOIN ledger_transactions c ON c.parent_id = t.transaction_id
		WHERE t.case_id = $1 AND t.parent_id IS NOT NULL
		ORDER BY t.transaction_id;
	`
	return r.queryIDs(ctx, query, caseID, "nested parents")
}

func (r *PgxTransactionRepository) queryIDs(ctx context.Context, query, caseID, what string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+what+" for case "+caseID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan "+what+" row for case "+caseID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating "+what+" rows for case "+caseID, err)
	}
	return ids, nil
}

// FindAuditRecordsByTransaction retrieves the audit trail of a transaction,
// newest first.
func (r *PgxTransactionRepository) FindAuditRecordsByTransaction(ctx context.Context, transactionID string) ([]domain.AuditRecord, error) {
	query := `
		SELECT audit_id, transaction_id, action, reason, actor, created_at, before_state
		FROM audit_records
		WHERE transaction_id = $1
		ORDER BY created_at DESC, audit_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit records for "+transactionID, err)
	}
	defer rows.Close()

	records := []models.AuditRecord{}
	for rows.Next() {
		var m models.AuditRecord
		if err := rows.Scan(&m.AuditID, &m.TransactionID, &m.Action, &m.Reason, &m.Actor, &m.CreatedAt, &m.BeforeState); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit record row for "+transactionID, err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit record rows for "+transactionID, err)
	}

	return mapping.ToDomainAuditRecordSlice(records), nil
}
