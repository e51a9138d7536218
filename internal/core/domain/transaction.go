package domain

import "time"

// LedgerTransaction is the central ledger entity. A transaction with a nil
// ParentID is a root (the unit the bank actually recorded); a transaction
// with a ParentID is a child created by a split and can never itself have
// children.
type LedgerTransaction struct {
	TransactionID string  `json:"transactionID"` // Primary Key (UUID)
	CaseID        string  `json:"caseID"`        // FK -> Case.caseID (Not Null)
	ParentID      *string `json:"parentID,omitempty"`

	AmountCents int64 `json:"amountCents"` // Signed minor units; + inflow, - outflow

	BookingDate   time.Time  `json:"bookingDate"`             // When the money moved
	ServiceDate   *time.Time `json:"serviceDate,omitempty"`   // Single service point
	ServicePeriod *Period    `json:"servicePeriod,omitempty"` // Takes precedence over ServiceDate

	Description  string `json:"description"`
	Counterparty string `json:"counterparty,omitempty"`
	Category     string `json:"category,omitempty"`
	BankAccount  string `json:"bankAccount,omitempty"`

	Classification Classification `json:"classification"`
	ClassifiedAt   *time.Time     `json:"classifiedAt,omitempty"`
	ReviewedAt     *time.Time     `json:"reviewedAt,omitempty"` // Manual review marker

	Children []LedgerTransaction `json:"children,omitempty"` // Loaded on demand

	AuditFields
}

// IsRoot reports whether the transaction has no parent.
func (t *LedgerTransaction) IsRoot() bool {
	return t.ParentID == nil
}

// SettlementPeriod returns the period contract rules are matched against: the
// explicit service period when present, otherwise the single service date as
// a one-day period.
func (t *LedgerTransaction) SettlementPeriod() (Period, bool) {
	if t.ServicePeriod != nil {
		return *t.ServicePeriod, true
	}
	if t.ServiceDate != nil {
		return DayPeriod(*t.ServiceDate), true
	}
	return Period{}, false
}

// Touched reports whether the transaction has left its default state since
// creation: manually reviewed, categorized, or reclassified after it was
// created. Unsplitting a parent whose children are touched destroys that
// data, so the split manager gates on it.
func (t *LedgerTransaction) Touched() bool {
	if t.ReviewedAt != nil {
		return true
	}
	if t.Category != "" {
		return true
	}
	return t.ClassifiedAt != nil && t.ClassifiedAt.After(t.CreatedAt)
}
