package models

import "time"

// Case represents one insolvency proceeding and its legal cutoff date.
type Case struct {
	CaseID     string    `db:"case_id"` // Primary Key (UUID)
	Name       string    `db:"name"`
	CutoffDate time.Time `db:"cutoff_date"`
	AuditFields
}
