package services

import (
	"context"
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

// caseService is the thin boundary to case configuration. The engine only
// reads cases; creation exists so deployments have a way to register the
// externally-decided cutoff date and contract rules.
type caseService struct {
	caseRepo portsrepo.CaseRepositoryFacade
}

// NewCaseService creates a new CaseService.
func NewCaseService(caseRepo portsrepo.CaseRepositoryFacade) portssvc.CaseSvcFacade {
	return &caseService{caseRepo: caseRepo}
}

var _ portssvc.CaseSvcFacade = (*caseService)(nil)

// CreateCase registers a new case with its legal cutoff date.
func (s *caseService) CreateCase(ctx context.Context, req dto.CreateCaseRequest, actor string) (*domain.Case, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cutoff, err := dto.ParseDate(req.CutoffDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cutoff date %q", apperrors.ErrValidation, req.CutoffDate)
	}

	now := time.Now().UTC()
	ledgerCase := domain.Case{
		CaseID:     uuid.NewString(),
		Name:       req.Name,
		CutoffDate: domain.Midnight(cutoff),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.caseRepo.SaveCase(ctx, ledgerCase); err != nil {
		logger.Error("Failed to save case", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save case: %w", err)
	}

	logger.Info("Case created", slog.String("case_id", ledgerCase.CaseID), slog.String("cutoff", ledgerCase.CutoffDate.Format(time.DateOnly)))
	return &ledgerCase, nil
}

// GetCase retrieves a case with its contract rules.
func (s *caseService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return s.caseRepo.FindCaseByID(ctx, caseID)
}

// AddContractRule attaches a settlement rule to a case.
func (s *caseService) AddContractRule(ctx context.Context, caseID string, req dto.CreateContractRuleRequest, actor string) (*domain.ContractRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.caseRepo.FindCaseByID(ctx, caseID); err != nil {
		return nil, err
	}

	periods := make([]domain.RatioPeriod, 0, len(req.Periods))
	for _, spec := range req.Periods {
		start, err := dto.ParseDate(spec.PeriodStart)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid period start %q", apperrors.ErrValidation, spec.PeriodStart)
		}
		end, err := dto.ParseDate(spec.PeriodEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid period end %q", apperrors.ErrValidation, spec.PeriodEnd)
		}
		period, err := domain.NewPeriod(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		ratio, err := domain.NewRatio(spec.RatioNum, spec.RatioDen)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		periods = append(periods, domain.RatioPeriod{Period: period, Ratio: ratio})
	}

	now := time.Now().UTC()
	rule := domain.ContractRule{
		RuleID:       uuid.NewString(),
		CaseID:       caseID,
		Counterparty: req.Counterparty,
		LagMonths:    req.LagMonths,
		Periods:      periods,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.caseRepo.SaveContractRule(ctx, rule); err != nil {
		logger.Error("Failed to save contract rule", slog.String("case_id", caseID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save contract rule: %w", err)
	}

	logger.Info("Contract rule added", slog.String("case_id", caseID), slog.String("rule_id", rule.RuleID), slog.String("counterparty", rule.Counterparty))
	return &rule, nil
}
