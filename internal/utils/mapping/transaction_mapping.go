package mapping

import (
	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/madegner/estate-ledger/internal/models"
)

// ToModelTransaction converts a domain LedgerTransaction to a model
// LedgerTransaction, flattening the classification into columns.
func ToModelTransaction(d domain.LedgerTransaction) models.LedgerTransaction {
	m := models.LedgerTransaction{
		TransactionID: d.TransactionID,
		CaseID:        d.CaseID,
		ParentID:      d.ParentID,
		AmountCents:   d.AmountCents,
		BookingDate:   d.BookingDate,
		ServiceDate:   d.ServiceDate,
		Description:   d.Description,
		Counterparty:  d.Counterparty,
		Category:      d.Category,
		BankAccount:   d.BankAccount,
		Bucket:        string(d.Classification.Bucket),
		Provenance:    string(d.Classification.Provenance),
		Note:          d.Classification.Note,
		ClassifiedAt:  d.ClassifiedAt,
		ReviewedAt:    d.ReviewedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.ServicePeriod != nil {
		start := d.ServicePeriod.Start
		end := d.ServicePeriod.End
		m.ServicePeriodStart = &start
		m.ServicePeriodEnd = &end
	}
	if d.Classification.Ratio != nil {
		num := d.Classification.Ratio.Num
		den := d.Classification.Ratio.Den
		m.RatioNum = &num
		m.RatioDen = &den
	}
	return m
}

// ToDomainTransaction converts a model LedgerTransaction to a domain
// LedgerTransaction, reassembling the classification and service period.
func ToDomainTransaction(m models.LedgerTransaction) domain.LedgerTransaction {
	d := domain.LedgerTransaction{
		TransactionID: m.TransactionID,
		CaseID:        m.CaseID,
		ParentID:      m.ParentID,
		AmountCents:   m.AmountCents,
		BookingDate:   m.BookingDate,
		ServiceDate:   m.ServiceDate,
		Description:   m.Description,
		Counterparty:  m.Counterparty,
		Category:      m.Category,
		BankAccount:   m.BankAccount,
		Classification: domain.Classification{
			Bucket:     domain.Bucket(m.Bucket),
			Provenance: domain.Provenance(m.Provenance),
			Note:       m.Note,
		},
		ClassifiedAt: m.ClassifiedAt,
		ReviewedAt:   m.ReviewedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.ServicePeriodStart != nil && m.ServicePeriodEnd != nil {
		d.ServicePeriod = &domain.Period{Start: *m.ServicePeriodStart, End: *m.ServicePeriodEnd}
	}
	if m.RatioNum != nil && m.RatioDen != nil {
		d.Classification.Ratio = &domain.Ratio{Num: *m.RatioNum, Den: *m.RatioDen}
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model transactions to domain transactions
func ToDomainTransactionSlice(ms []models.LedgerTransaction) []domain.LedgerTransaction {
	ds := make([]domain.LedgerTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
