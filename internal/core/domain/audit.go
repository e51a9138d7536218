package domain

import "time"

// AuditAction names the operations recorded in the append-only audit log.
type AuditAction string

const (
	AuditActionClassify AuditAction = "CLASSIFY"
	AuditActionSplit    AuditAction = "SPLIT"
	AuditActionUnsplit  AuditAction = "UNSPLIT"
)

// AuditRecord is one immutable entry of the audit log. BeforeState holds the
// full pre-mutation JSON of the affected transaction(s); for an unsplit this
// includes every deleted child, so a destroyed decomposition stays
// forensically recoverable.
type AuditRecord struct {
	AuditID       string      `json:"auditID"` // Primary Key (UUID)
	TransactionID string      `json:"transactionID"`
	Action        AuditAction `json:"action"`
	Reason        string      `json:"reason"`
	Actor         string      `json:"actor"`
	CreatedAt     time.Time   `json:"createdAt"`
	BeforeState   []byte      `json:"beforeState"` // JSON snapshot
}
