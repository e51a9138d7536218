package mapping

import (
	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/madegner/estate-ledger/internal/models"
)

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	return models.AuditRecord{
		AuditID:       d.AuditID,
		TransactionID: d.TransactionID,
		Action:        string(d.Action),
		Reason:        d.Reason,
		Actor:         d.Actor,
		CreatedAt:     d.CreatedAt,
		BeforeState:   d.BeforeState,
	}
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	return domain.AuditRecord{
		AuditID:       m.AuditID,
		TransactionID: m.TransactionID,
		Action:        domain.AuditAction(m.Action),
		Reason:        m.Reason,
		Actor:         m.Actor,
		CreatedAt:     m.CreatedAt,
		BeforeState:   m.BeforeState,
	}
}

// ToDomainAuditRecordSlice converts a slice of model audit records to domain audit records
func ToDomainAuditRecordSlice(ms []models.AuditRecord) []domain.AuditRecord {
	ds := make([]domain.AuditRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditRecord(m)
	}
	return ds
}
