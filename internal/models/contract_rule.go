package models

import "time"

// ContractRule is the persistence shape of a counterparty settlement rule.
// Its explicit period->ratio entries live in contract_rule_periods.
type ContractRule struct {
	RuleID       string `db:"rule_id"` // Primary Key (UUID)
	CaseID       string `db:"case_id"` // FK -> cases.case_id
	Counterparty string `db:"counterparty"`
	LagMonths    *int   `db:"lag_months"` // Nullable; set for in-arrears payers
	AuditFields
}

// ContractRulePeriod is one explicit ratio entry of a contract rule.
type ContractRulePeriod struct {
	RuleID      string    `db:"rule_id"` // FK -> contract_rules.rule_id
	PeriodStart time.Time `db:"period_start"`
	PeriodEnd   time.Time `db:"period_end"`
	RatioNum    int64     `db:"ratio_num"`
	RatioDen    int64     `db:"ratio_den"`
}
