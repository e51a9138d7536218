package domain

import "time"

// Case is the scoping entity for a ledger: one insolvency proceeding with its
// legal cutoff date. The cutoff is fixed per case and immutable for the
// engine's purposes; classification receives it as an explicit snapshot,
// never from ambient state.
type Case struct {
	CaseID     string    `json:"caseID"` // Primary Key (UUID)
	Name       string    `json:"name"`
	CutoffDate time.Time `json:"cutoffDate"` // Legal boundary between old and new estate

	ContractRules []ContractRule `json:"contractRules,omitempty"` // Loaded on demand

	AuditFields
}

// RuleFor returns the contract rule configured for a counterparty, if any.
func (c *Case) RuleFor(counterparty string) *ContractRule {
	if counterparty == "" {
		return nil
	}
	for i := range c.ContractRules {
		if c.ContractRules[i].Counterparty == counterparty {
			return &c.ContractRules[i]
		}
	}
	return nil
}
