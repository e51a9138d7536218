package dto

import (
	"time"

	"github.com/madegner/estate-ledger/internal/core/domain"
)

// CreateCaseRequest registers a new insolvency case with its legal cutoff date.
type CreateCaseRequest struct {
	Name       string `json:"name" binding:"required"`
	CutoffDate string `json:"cutoffDate" binding:"required,ledgerdate"`
}

// RatioPeriodSpec is one explicit period->ratio entry of a contract rule.
// ratioNum/ratioDen is the fixed NEW-estate share for settlement periods
// covered by [periodStart, periodEnd).
type RatioPeriodSpec struct {
	PeriodStart string `json:"periodStart" binding:"required,ledgerdate"`
	PeriodEnd   string `json:"periodEnd" binding:"required,ledgerdate"`
	RatioNum    int64  `json:"ratioNum" binding:"min=0"`
	RatioDen    int64  `json:"ratioDen" binding:"required,min=1"`
}

// CreateContractRuleRequest adds a settlement rule for a counterparty.
// lagMonths marks an in-arrears payer (booking month M covers month M-lag).
type CreateContractRuleRequest struct {
	Counterparty string            `json:"counterparty" binding:"required"`
	LagMonths    *int              `json:"lagMonths,omitempty" binding:"omitempty,min=1,max=12"`
	Periods      []RatioPeriodSpec `json:"periods,omitempty" binding:"omitempty,dive"`
}

// ContractRuleResponse renders one contract rule.
type ContractRuleResponse struct {
	RuleID       string            `json:"ruleID"`
	Counterparty string            `json:"counterparty"`
	LagMonths    *int              `json:"lagMonths,omitempty"`
	Periods      []RatioPeriodSpec `json:"periods,omitempty"`
}

// CaseResponse renders a case with its contract rules.
type CaseResponse struct {
	CaseID        string                 `json:"caseID"`
	Name          string                 `json:"name"`
	CutoffDate    string                 `json:"cutoffDate"`
	ContractRules []ContractRuleResponse `json:"contractRules,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// ToContractRuleResponse converts a domain ContractRule to its response form.
func ToContractRuleResponse(r *domain.ContractRule) ContractRuleResponse {
	resp := ContractRuleResponse{
		RuleID:       r.RuleID,
		Counterparty: r.Counterparty,
		LagMonths:    r.LagMonths,
	}
	for _, rp := range r.Periods {
		resp.Periods = append(resp.Periods, RatioPeriodSpec{
			PeriodStart: rp.Period.Start.Format(time.DateOnly),
			PeriodEnd:   rp.Period.End.Format(time.DateOnly),
			RatioNum:    rp.Ratio.Num,
			RatioDen:    rp.Ratio.Den,
		})
	}
	return resp
}

// ToCaseResponse converts a domain Case to its response form.
func ToCaseResponse(c *domain.Case) CaseResponse {
	resp := CaseResponse{
		CaseID:     c.CaseID,
		Name:       c.Name,
		CutoffDate: c.CutoffDate.Format(time.DateOnly),
		CreatedAt:  c.CreatedAt,
	}
	for i := range c.ContractRules {
		resp.ContractRules = append(resp.ContractRules, ToContractRuleResponse(&c.ContractRules[i]))
	}
	return resp
}
