package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madegner/estate-ledger/internal/apperrors"
	"github.com/madegner/estate-ledger/internal/core/domain"
	portsrepo "github.com/madegner/estate-ledger/internal/core/ports/repositories"
	"github.com/madegner/estate-ledger/internal/models"
	"github.com/madegner/estate-ledger/internal/utils/mapping"
)

type PgxCaseRepository struct {
	repository
}

// newPgxCaseRepository creates a new repository for case configuration data.
func newPgxCaseRepository(pool *pgxpool.Pool) portsrepo.CaseRepositoryFacade {
	return &PgxCaseRepository{
		repository: repository{Pool: pool},
	}
}

// Ensure PgxCaseRepository implements portsrepo.CaseRepositoryFacade
var _ portsrepo.CaseRepositoryFacade = (*PgxCaseRepository)(nil)

// FindCaseByID retrieves a case with all of its contract rules loaded.
func (r *PgxCaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	query := `
		SELECT case_id, name, cutoff_date, created_at, created_by, last_updated_at, last_updated_by
		FROM cases
		WHERE case_id = $1;
	`
	var m models.Case
	err := r.Pool.QueryRow(ctx, query, caseID).Scan(
		&m.CaseID,
		&m.Name,
		&m.CutoffDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find case by ID "+caseID, err)
	}

	rules, err := r.findContractRules(ctx, caseID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainCase(m)
	d.ContractRules = rules
	return &d, nil
}

// findContractRules loads the contract rules of a case with their period
// entries, in two queries rather than one join so the row shapes stay simple.
func (r *PgxCaseRepository) findContractRules(ctx context.Context, caseID string) ([]domain.ContractRule, error) {
	ruleQuery := `
		SELECT rule_id, case_id, counterparty, lag_months, created_at, created_by, last_updated_at, last_updated_by
		FROM contract_rules
		WHERE case_id = $1
		ORDER BY created_at, rule_id;
	`
	rows, err := r.Pool.Query(ctx, ruleQuery, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query contract rules for case "+caseID, err)
	}
	defer rows.Close()

	ruleModels := []models.ContractRule{}
	for rows.Next() {
		var m models.ContractRule
		if err := rows.Scan(&m.RuleID, &m.CaseID, &m.Counterparty, &m.LagMonths, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contract rule row for case "+caseID, err)
		}
		ruleModels = append(ruleModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contract rule rows for case "+caseID, err)
	}
	if len(ruleModels) == 0 {
		return nil, nil
	}

	periodQuery := `
		SELECT p.rule_id, p.period_start, p.period_end, p.ratio_num, p.ratio_den
		FROM contract_rule_periods p
		JOIN contract_rules r ON r.rule_id = p.rule_id
		WHERE r.case_id = $1
		ORDER BY p.period_start;
	`
	periodRows, err := r.Pool.Query(ctx, periodQuery, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query contract rule periods for case "+caseID, err)
	}
	defer periodRows.Close()

	periodsByRule := map[string][]models.ContractRulePeriod{}
	for periodRows.Next() {
		var p models.ContractRulePeriod
		if err := periodRows.Scan(&p.RuleID, &p.PeriodStart, &p.PeriodEnd, &p.RatioNum, &p.RatioDen); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contract rule period row for case "+caseID, err)
		}
		periodsByRule[p.RuleID] = append(periodsByRule[p.RuleID], p)
	}
	if err := periodRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contract rule period rows for case "+caseID, err)
	}

	rules := make([]domain.ContractRule, 0, len(ruleModels))
	for _, m := range ruleModels {
		rules = append(rules, mapping.ToDomainContractRule(m, periodsByRule[m.RuleID]))
	}
	return rules, nil
}

// SaveCase persists a new case.
func (r *PgxCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	m := mapping.ToModelCase(c)
	query := `
		INSERT INTO cases (case_id, name, cutoff_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CaseID,
		m.Name,
		m.CutoffDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: case with ID %s already exists", apperrors.ErrDuplicate, m.CaseID)
		}
		return apperrors.NewAppError(500, "failed to insert case "+m.CaseID, err)
	}
	return nil
}

// SaveContractRule persists a new contract rule with its period entries in one
// database transaction.
func (r *PgxCaseRepository) SaveContractRule(ctx context.Context, rule domain.ContractRule) error {
	ruleModel, periodModels := mapping.ToModelContractRule(rule)

	ruleQuery := `
		INSERT INTO contract_rules (rule_id, case_id, counterparty, lag_months, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, ruleQuery,
			ruleModel.RuleID,
			ruleModel.CaseID,
			ruleModel.Counterparty,
			ruleModel.LagMonths,
			ruleModel.CreatedAt,
			ruleModel.CreatedBy,
			ruleModel.LastUpdatedAt,
			ruleModel.LastUpdatedBy,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: contract rule for counterparty %s already exists", apperrors.ErrDuplicate, ruleModel.Counterparty)
			}
			return apperrors.NewAppError(500, "failed to insert contract rule "+ruleModel.RuleID, err)
		}

		if len(periodModels) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		periodQuery := `
			INSERT INTO contract_rule_periods (rule_id, period_start, period_end, ratio_num, ratio_den)
			VALUES ($1, $2, $3, $4, $5);
		`
		for _, p := range periodModels {
			batch.Queue(periodQuery, p.RuleID, p.PeriodStart, p.PeriodEnd, p.RatioNum, p.RatioDen)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert contract rule periods for "+ruleModel.RuleID, err)
		}
		return nil
	})
}
