package models

import "time"

// LedgerTransaction is the persistence shape of a ledger transaction. The
// classification is flattened into columns; the ratio columns are NULL unless
// the bucket is MIXED.
type LedgerTransaction struct {
	TransactionID string  `db:"transaction_id"` // Primary Key (UUID)
	CaseID        string  `db:"case_id"`        // FK -> cases.case_id (Not Null)
	ParentID      *string `db:"parent_id"`      // Nullable self-FK; set on split children

	AmountCents int64 `db:"amount_cents"` // Signed minor units

	BookingDate        time.Time  `db:"booking_date"`
	ServiceDate        *time.Time `db:"service_date"`         // Nullable
	ServicePeriodStart *time.Time `db:"service_period_start"` // Nullable pair
	ServicePeriodEnd   *time.Time `db:"service_period_end"`

	Description  string `db:"description"`
	Counterparty string `db:"counterparty"`
	Category     string `db:"category"`
	BankAccount  string `db:"bank_account"`

	Bucket     string `db:"bucket"`
	RatioNum   *int64 `db:"ratio_num"` // NULL unless bucket is MIXED
	RatioDen   *int64 `db:"ratio_den"`
	Provenance string `db:"provenance"`
	Note       string `db:"note"`

	ClassifiedAt *time.Time `db:"classified_at"`
	ReviewedAt   *time.Time `db:"reviewed_at"`

	AuditFields // Embed common audit fields
}
