package domain

// RatioPeriod is one explicit period->ratio entry of a contract rule, e.g.
// "Q4: 2/3 new estate" for a counterparty with a known settlement rhythm.
type RatioPeriod struct {
	Period Period `json:"period"`
	Ratio  Ratio  `json:"ratio"` // NEW-estate share, used verbatim
}

// ContractRule is per-case configuration for a counterparty's settlement
// behavior. Owned by case configuration; read-only to the engine.
type ContractRule struct {
	RuleID       string `json:"ruleID"` // Primary Key (UUID)
	CaseID       string `json:"caseID"` // FK -> Case.caseID
	Counterparty string `json:"counterparty"`

	// Periods carries explicit ratio overrides for known settlement periods.
	Periods []RatioPeriod `json:"periods,omitempty"`

	// LagMonths, when set, marks a counterparty that pays in arrears: a
	// booking in month M settles services of month M-LagMonths.
	LagMonths *int `json:"lagMonths,omitempty"`

	AuditFields
}

// MatchPeriod returns the fixed ratio configured for a settlement period, if
// one of the rule's entries covers it entirely.
func (r *ContractRule) MatchPeriod(settlement Period) (Ratio, bool) {
	for _, rp := range r.Periods {
		if rp.Period.Covers(settlement) {
			return rp.Ratio, true
		}
	}
	return Ratio{}, false
}
