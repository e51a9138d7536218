package dto

import (
	"encoding/json"
	"time"

	"github.com/madegner/estate-ledger/internal/core/domain"
)

// ReclassifyResponse summarizes a batch reclassification sweep.
type ReclassifyResponse struct {
	CaseID      string         `json:"caseID"`
	Total       int            `json:"total"`
	Changed     int            `json:"changed"`
	BucketCount map[string]int `json:"bucketCount"`
}

// InvariantCheckResponse renders one invariant's pass/fail outcome.
type InvariantCheckResponse struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// InvariantReportResponse renders a full validation report, including the
// concrete offending rows with numeric deltas in minor units.
type InvariantReportResponse struct {
	CaseID           string                     `json:"caseID"`
	Passed           bool                       `json:"passed"`
	ParentSums       InvariantCheckResponse     `json:"parentSums"`
	Conservation     InvariantCheckResponse     `json:"conservation"`
	Referential      InvariantCheckResponse     `json:"referential"`
	Acyclic          InvariantCheckResponse     `json:"acyclic"`
	ParentMismatches []domain.ParentSumMismatch `json:"parentMismatches,omitempty"`
	ActiveSumCents   int64                      `json:"activeSumCents"`
	RootSumCents     int64                      `json:"rootSumCents"`
	OrphanedChildren []string                   `json:"orphanedChildren,omitempty"`
	NestedParents    []string                   `json:"nestedParents,omitempty"`
}

// AuditRecordResponse renders one audit log entry. BeforeState is raw JSON.
type AuditRecordResponse struct {
	AuditID       string          `json:"auditID"`
	TransactionID string          `json:"transactionID"`
	Action        string          `json:"action"`
	Reason        string          `json:"reason"`
	Actor         string          `json:"actor"`
	CreatedAt     time.Time       `json:"createdAt"`
	BeforeState   json.RawMessage `json:"beforeState,omitempty"`
}

func toInvariantCheckResponse(c domain.InvariantCheck) InvariantCheckResponse {
	return InvariantCheckResponse{Name: c.Name, Passed: c.Passed, Detail: c.Detail}
}

// ToInvariantReportResponse converts a domain InvariantReport to its response form.
func ToInvariantReportResponse(r *domain.InvariantReport) InvariantReportResponse {
	return InvariantReportResponse{
		CaseID:           r.CaseID,
		Passed:           r.Passed(),
		ParentSums:       toInvariantCheckResponse(r.ParentSums),
		Conservation:     toInvariantCheckResponse(r.Conservation),
		Referential:      toInvariantCheckResponse(r.Referential),
		Acyclic:          toInvariantCheckResponse(r.Acyclic),
		ParentMismatches: r.ParentMismatches,
		ActiveSumCents:   r.ActiveSumCents,
		RootSumCents:     r.RootSumCents,
		OrphanedChildren: r.OrphanedChildren,
		NestedParents:    r.NestedParents,
	}
}

// ToAuditRecordResponses converts domain audit records.
func ToAuditRecordResponses(rs []domain.AuditRecord) []AuditRecordResponse {
	resps := make([]AuditRecordResponse, len(rs))
	for i, r := range rs {
		resps[i] = AuditRecordResponse{
			AuditID:       r.AuditID,
			TransactionID: r.TransactionID,
			Action:        string(r.Action),
			Reason:        r.Reason,
			Actor:         r.Actor,
			CreatedAt:     r.CreatedAt,
			BeforeState:   json.RawMessage(r.BeforeState),
		}
	}
	return resps
}
