package dto

import (
	"time"

	"github.com/madegner/estate-ledger/internal/core/domain"
	"github.com/madegner/estate-ledger/internal/utils"
)

// CreateTransactionRequest ingests one new root transaction into a case ledger.
// Dates are ISO calendar dates (YYYY-MM-DD); the service period is half-open,
// serviceEnd exclusive. amountCents is signed: + inflow, - outflow.
type CreateTransactionRequest struct {
	AmountCents  int64   `json:"amountCents" binding:"required"`
	BookingDate  string  `json:"bookingDate" binding:"required,ledgerdate"`
	ServiceDate  *string `json:"serviceDate,omitempty" binding:"omitempty,ledgerdate"`
	ServiceStart *string `json:"serviceStart,omitempty" binding:"omitempty,ledgerdate"`
	ServiceEnd   *string `json:"serviceEnd,omitempty" binding:"omitempty,ledgerdate"`
	Description  string  `json:"description" binding:"required"`
	Counterparty string  `json:"counterparty,omitempty"`
	Category     string  `json:"category,omitempty"`
	BankAccount  string  `json:"bankAccount,omitempty"`
}

// ListTransactionsParams carries pagination and filter parameters for listing
// a case ledger.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	RootsOnly bool    `form:"rootsOnly"`
}

// ClassificationResponse renders a classification result. Ratio is the
// NEW-estate share as an exact fraction string (e.g. "3/31"), present only
// for MIXED allocations.
type ClassificationResponse struct {
	Bucket     string `json:"bucket"`
	Ratio      string `json:"ratio,omitempty"`
	Provenance string `json:"provenance"`
	Note       string `json:"note,omitempty"`
}

// TransactionResponse renders one ledger transaction.
type TransactionResponse struct {
	TransactionID  string                 `json:"transactionID"`
	CaseID         string                 `json:"caseID"`
	ParentID       *string                `json:"parentID,omitempty"`
	AmountCents    int64                  `json:"amountCents"`
	Amount         string                 `json:"amount"` // Decimal rendering of AmountCents
	BookingDate    string                 `json:"bookingDate"`
	ServiceDate    *string                `json:"serviceDate,omitempty"`
	ServiceStart   *string                `json:"serviceStart,omitempty"`
	ServiceEnd     *string                `json:"serviceEnd,omitempty"`
	Description    string                 `json:"description"`
	Counterparty   string                 `json:"counterparty,omitempty"`
	Category       string                 `json:"category,omitempty"`
	BankAccount    string                 `json:"bankAccount,omitempty"`
	Classification ClassificationResponse `json:"classification"`
	ClassifiedAt   *time.Time             `json:"classifiedAt,omitempty"`
	ReviewedAt     *time.Time             `json:"reviewedAt,omitempty"`
	Children       []TransactionResponse  `json:"children,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// ListTransactionsResponse is a paginated page of a case ledger.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToClassificationResponse converts a domain Classification to its response form.
func ToClassificationResponse(c domain.Classification) ClassificationResponse {
	resp := ClassificationResponse{
		Bucket:     string(c.Bucket),
		Provenance: string(c.Provenance),
		Note:       c.Note,
	}
	if c.Ratio != nil {
		resp.Ratio = c.Ratio.String()
	}
	return resp
}

// ToTransactionResponse converts a domain LedgerTransaction to its response form.
func ToTransactionResponse(t *domain.LedgerTransaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:  t.TransactionID,
		CaseID:         t.CaseID,
		ParentID:       t.ParentID,
		AmountCents:    t.AmountCents,
		Amount:         utils.FormatCents(t.AmountCents),
		BookingDate:    t.BookingDate.Format(time.DateOnly),
		Description:    t.Description,
		Counterparty:   t.Counterparty,
		Category:       t.Category,
		BankAccount:    t.BankAccount,
		Classification: ToClassificationResponse(t.Classification),
		ClassifiedAt:   t.ClassifiedAt,
		ReviewedAt:     t.ReviewedAt,
		CreatedAt:      t.CreatedAt,
	}
	if t.ServiceDate != nil {
		s := t.ServiceDate.Format(time.DateOnly)
		resp.ServiceDate = &s
	}
	if t.ServicePeriod != nil {
		start := t.ServicePeriod.Start.Format(time.DateOnly)
		end := t.ServicePeriod.End.Format(time.DateOnly)
		resp.ServiceStart = &start
		resp.ServiceEnd = &end
	}
	for i := range t.Children {
		resp.Children = append(resp.Children, ToTransactionResponse(&t.Children[i]))
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(ts []domain.LedgerTransaction) []TransactionResponse {
	resps := make([]TransactionResponse, len(ts))
	for i := range ts {
		resps[i] = ToTransactionResponse(&ts[i])
	}
	return resps
}
