package mapping

import (
	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/madegner/estate-ledger/internal/models"
)

// ToModelCase converts a domain Case to a model Case
func ToModelCase(d domain.Case) models.Case {
	return models.Case{
		CaseID:      d.CaseID,
		Name:        d.Name,
		CutoffDate:  d.CutoffDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCase converts a model Case to a domain Case. Contract rules are
// attached separately by the repository.
func ToDomainCase(m models.Case) domain.Case {
	return domain.Case{
		CaseID:      m.CaseID,
		Name:        m.Name,
		CutoffDate:  m.CutoffDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelContractRule converts a domain ContractRule to its rule row and
// period rows.
func ToModelContractRule(d domain.ContractRule) (models.ContractRule, []models.ContractRulePeriod) {
	rule := models.ContractRule{
		RuleID:       d.RuleID,
		CaseID:       d.CaseID,
		Counterparty: d.Counterparty,
		LagMonths:    d.LagMonths,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	periods := make([]models.ContractRulePeriod, 0, len(d.Periods))
	for _, rp := range d.Periods {
		periods = append(periods, models.ContractRulePeriod{
			RuleID:      d.RuleID,
			PeriodStart: rp.Period.Start,
			PeriodEnd:   rp.Period.End,
			RatioNum:    rp.Ratio.Num,
			RatioDen:    rp.Ratio.Den,
		})
	}
	return rule, periods
}

// ToDomainContractRule converts a model ContractRule and its period rows to a
// domain ContractRule.
func ToDomainContractRule(m models.ContractRule, periods []models.ContractRulePeriod) domain.ContractRule {
	d := domain.ContractRule{
		RuleID:       m.RuleID,
		CaseID:       m.CaseID,
		Counterparty: m.Counterparty,
		LagMonths:    m.LagMonths,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	for _, p := range periods {
		d.Periods = append(d.Periods, domain.RatioPeriod{
			Period: domain.Period{Start: p.PeriodStart, End: p.PeriodEnd},
			Ratio:  domain.Ratio{Num: p.RatioNum, Den: p.RatioDen},
		})
	}
	return d
}
