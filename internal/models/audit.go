package models

import "time"

// AuditRecord is one row of the append-only audit log. BeforeState is the
// JSONB snapshot taken before the mutation was applied.
type AuditRecord struct {
	AuditID       string    `db:"audit_id"` // Primary Key (UUID)
	TransactionID string    `db:"transaction_id"`
	Action        string    `db:"action"` // CLASSIFY, SPLIT, UNSPLIT
	Reason        string    `db:"reason"`
	Actor         string    `db:"actor"`
	CreatedAt     time.Time `db:"created_at"`
	BeforeState   []byte    `db:"before_state"` // JSONB
}
