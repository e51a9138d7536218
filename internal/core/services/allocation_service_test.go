package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/madegner/estate-ledger/internal/apperrors"
	"github.com/madegner/estate-ledger/internal/core/domain"
	portssvc "github.com/madegner/estate-ledger/internal/core/ports/services"
	"github.com/madegner/estate-ledger/internal/core/services"
)

// cutoff for all resolver tests: insolvency opened 2025-10-29.
var testCutoff = time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func periodPtr(start, end time.Time) *domain.Period {
	p, err := domain.NewPeriod(start, end)
	if err != nil {
		panic(err)
	}
	return &p
}

func octoberPeriod() *domain.Period {
	return periodPtr(
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	)
}

func mustRatio(num, den int64) domain.Ratio {
	r, err := domain.NewRatio(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// --- Pure resolver tests ---

func TestClassify_ContractRuleTakesPrecedence(t *testing.T) {
	rule := &domain.ContractRule{
		RuleID:       uuid.NewString(),
		Counterparty: "Stadtwerke GmbH",
		Periods: []domain.RatioPeriod{
			{
				// Q4 fixed at 2/3 new estate by settlement agreement.
				Period: *periodPtr(
					time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				),
				Ratio: mustRatio(2, 3),
			},
		},
	}
	txn := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		AmountCents:   -90000,
		BookingDate:   time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC),
		// Without the rule this period would prorate to 3/31.
		ServicePeriod: octoberPeriod(),
		Counterparty:  "Stadtwerke GmbH",
	}

	result := services.Classify(txn, rule, testCutoff)

	assert.Equal(t, domain.BucketMixed, result.Bucket)
	assert.Equal(t, domain.ProvenanceContractRule, result.Provenance)
	if assert.NotNil(t, result.Ratio) {
		assert.True(t, result.Ratio.Equal(mustRatio(2, 3)))
	}
}

func TestClassify_ContractRuleNotCoveringFallsThrough(t *testing.T) {
	rule := &domain.ContractRule{
		RuleID:       uuid.NewString(),
		Counterparty: "Stadtwerke GmbH",
		Periods: []domain.RatioPeriod{
			{
				// Rule covers September only; an October settlement falls through.
				Period: *periodPtr(
					time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
				),
				Ratio: mustRatio(1, 2),
			},
		},
	}
	txn := domain.LedgerTransaction{ServicePeriod: octoberPeriod()}

	result := services.Classify(txn, rule, testCutoff)

	assert.Equal(t, domain.ProvenancePeriodProrata, result.Provenance)
}

func TestClassify_ServiceDateRule(t *testing.T) {
	tests := []struct {
		name        string
		serviceDate *time.Time
		wantBucket  domain.Bucket
	}{
		{"before cutoff is old estate", datePtr(2025, 10, 28), domain.BucketOldEstate},
		{"on cutoff is new estate", datePtr(2025, 10, 29), domain.BucketNewEstate},
		{"after cutoff is new estate", datePtr(2025, 11, 3), domain.BucketNewEstate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			txn := domain.LedgerTransaction{
				BookingDate: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
				ServiceDate: tc.serviceDate,
			}
			result := services.Classify(txn, nil, testCutoff)
			assert.Equal(t, tc.wantBucket, result.Bucket)
			assert.Equal(t, domain.ProvenanceServiceDate, result.Provenance)
			assert.Nil(t, result.Ratio)
		})
	}
}

func TestClassify_ServicePeriodSuppressesServiceDate(t *testing.T) {
	// A transaction carrying both: the period wins, the single date is ignored.
	txn := domain.LedgerTransaction{
		ServiceDate:   datePtr(2025, 9, 1),
		ServicePeriod: octoberPeriod(),
	}

	result := services.Classify(txn, nil, testCutoff)

	assert.Equal(t, domain.ProvenancePeriodProrata, result.Provenance)
	assert.Equal(t, domain.BucketMixed, result.Bucket)
}

func TestClassify_PeriodProrata(t *testing.T) {
	t.Run("straddling period is prorated by days", func(t *testing.T) {
		// October has 31 days; 2025-10-29 through 10-31 are the 3 new-estate days.
		txn := domain.LedgerTransaction{ServicePeriod: octoberPeriod()}

		result := services.Classify(txn, nil, testCutoff)

		assert.Equal(t, domain.BucketMixed, result.Bucket)
		assert.Equal(t, domain.ProvenancePeriodProrata, result.Provenance)
		if assert.NotNil(t, result.Ratio) {
			assert.True(t, result.Ratio.Equal(mustRatio(3, 31)), "got %s", result.Ratio)
		}
	})

	t.Run("period wholly before cutoff is old estate", func(t *testing.T) {
		txn := domain.LedgerTransaction{
			ServicePeriod: periodPtr(
				time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			),
		}
		result := services.Classify(txn, nil, testCutoff)
		assert.Equal(t, domain.BucketOldEstate, result.Bucket)
		assert.Nil(t, result.Ratio)
	})

	t.Run("period ending exactly on cutoff is old estate", func(t *testing.T) {
		// End is exclusive, so [10-01, 10-29) contains no new-estate day.
		txn := domain.LedgerTransaction{
			ServicePeriod: periodPtr(
				time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC),
			),
		}
		result := services.Classify(txn, nil, testCutoff)
		assert.Equal(t, domain.BucketOldEstate, result.Bucket)
	})

	t.Run("period starting on cutoff is new estate", func(t *testing.T) {
		txn := domain.LedgerTransaction{
			ServicePeriod: periodPtr(
				time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC),
			),
		}
		result := services.Classify(txn, nil, testCutoff)
		assert.Equal(t, domain.BucketNewEstate, result.Bucket)
	})
}

func TestClassify_RhythmInference(t *testing.T) {
	lag := 1
	rule := &domain.ContractRule{
		RuleID:       uuid.NewString(),
		Counterparty: "Netzbetreiber AG",
		LagMonths:    &lag,
	}

	t.Run("booking in arrears implies the straddling month", func(t *testing.T) {
		// Booked November, lag 1: services of October, which the cutoff splits.
		txn := domain.LedgerTransaction{
			BookingDate:  time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
			Counterparty: "Netzbetreiber AG",
		}

		result := services.Classify(txn, rule, testCutoff)

		assert.Equal(t, domain.BucketMixed, result.Bucket)
		assert.Equal(t, domain.ProvenanceRhythmInference, result.Provenance)
		if assert.NotNil(t, result.Ratio) {
			assert.True(t, result.Ratio.Equal(mustRatio(3, 31)))
		}
	})

	t.Run("lag crossing the year boundary", func(t *testing.T) {
		lag3 := 3
		rule3 := &domain.ContractRule{RuleID: uuid.NewString(), LagMonths: &lag3}
		txn := domain.LedgerTransaction{
			BookingDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		}

		result := services.Classify(txn, rule3, testCutoff)

		// January minus 3 months is October 2025.
		assert.Equal(t, domain.BucketMixed, result.Bucket)
		assert.Equal(t, domain.ProvenanceRhythmInference, result.Provenance)
	})

	t.Run("explicit service date wins over rhythm", func(t *testing.T) {
		txn := domain.LedgerTransaction{
			BookingDate: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
			ServiceDate: datePtr(2025, 11, 14),
		}
		result := services.Classify(txn, rule, testCutoff)
		assert.Equal(t, domain.ProvenanceServiceDate, result.Provenance)
	})
}

func TestClassify_NoInformationIsUnresolved(t *testing.T) {
	txn := domain.LedgerTransaction{
		BookingDate: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
	}

	result := services.Classify(txn, nil, testCutoff)

	assert.Equal(t, domain.BucketUnresolved, result.Bucket)
	assert.Equal(t, domain.ProvenanceNoRuleMatched, result.Provenance)
	assert.Nil(t, result.Ratio)
}

func TestClassify_Deterministic(t *testing.T) {
	txn := domain.LedgerTransaction{ServicePeriod: octoberPeriod()}

	first := services.Classify(txn, nil, testCutoff)
	second := services.Classify(txn, nil, testCutoff)

	assert.True(t, first.Equal(second), "resolver must be idempotent on unchanged input")
}

// --- AllocationService tests ---

type AllocationServiceTestSuite struct {
	suite.Suite
	mockTxnRepo  *MockTransactionRepository
	mockCaseRepo *MockCaseRepository
	service      portssvc.AllocationSvcFacade
	ledgerCase   domain.Case
	actor        string
}

func (suite *AllocationServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockCaseRepo = new(MockCaseRepository)
	suite.service = services.NewAllocationService(suite.mockTxnRepo, suite.mockCaseRepo)

	suite.actor = uuid.NewString()
	suite.ledgerCase = domain.Case{
		CaseID:     uuid.NewString(),
		Name:       "Musterfirma GmbH",
		CutoffDate: testCutoff,
	}
}

func (suite *AllocationServiceTestSuite) TestClassifyTransaction_PersistsChange() {
	ctx := context.Background()
	txn := &domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		CaseID:        suite.ledgerCase.CaseID,
		AmountCents:   -12500,
		BookingDate:   time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		ServiceDate:   datePtr(2025, 10, 15),
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockCaseRepo.On("FindCaseByID", ctx, suite.ledgerCase.CaseID).Return(&suite.ledgerCase, nil).Once()
	suite.mockTxnRepo.On("UpdateClassification", ctx, txn.TransactionID,
		mock.AnythingOfType("domain.Classification"), mock.AnythingOfType("time.Time"),
		suite.actor, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	classified, err := suite.service.ClassifyTransaction(ctx, txn.TransactionID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(classified)
	suite.Equal(domain.BucketOldEstate, classified.Classification.Bucket)
	suite.Equal(domain.ProvenanceServiceDate, classified.Classification.Provenance)
	suite.Require().NotNil(classified.ClassifiedAt)
	suite.Equal(suite.actor, classified.LastUpdatedBy)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockCaseRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestClassifyTransaction_UnchangedIsNoOp() {
	ctx := context.Background()
	txn := &domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		CaseID:        suite.ledgerCase.CaseID,
		BookingDate:   time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		ServiceDate:   datePtr(2025, 10, 15),
	}
	// Pre-store exactly what the resolver will produce again.
	txn.Classification = services.Classify(*txn, nil, testCutoff)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockCaseRepo.On("FindCaseByID", ctx, suite.ledgerCase.CaseID).Return(&suite.ledgerCase, nil).Once()

	classified, err := suite.service.ClassifyTransaction(ctx, txn.TransactionID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(classified)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateClassification",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestClassifyTransaction_NotFound() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ClassifyTransaction(ctx, unknownID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCaseRepo.AssertNotCalled(suite.T(), "FindCaseByID", mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestReclassifyCase_CountsBucketsAndChanges() {
	ctx := context.Background()

	oldTxn := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		CaseID:        suite.ledgerCase.CaseID,
		BookingDate:   time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		ServiceDate:   datePtr(2025, 10, 1),
	}
	// Already carries its final classification; the sweep must not rewrite it.
	unchanged := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		CaseID:        suite.ledgerCase.CaseID,
		BookingDate:   time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		ServiceDate:   datePtr(2025, 11, 2),
	}
	unchanged.Classification = services.Classify(unchanged, nil, testCutoff)
	unresolved := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		CaseID:        suite.ledgerCase.CaseID,
		BookingDate:   time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
	}
	unresolved.Classification = domain.Unresolved()

	suite.mockCaseRepo.On("FindCaseByID", ctx, suite.ledgerCase.CaseID).Return(&suite.ledgerCase, nil).Once()
	suite.mockTxnRepo.On("FindAllTransactionsByCase", ctx, suite.ledgerCase.CaseID).
		Return([]domain.LedgerTransaction{oldTxn, unchanged, unresolved}, nil).Once()
	suite.mockTxnRepo.On("UpdateClassification", ctx, oldTxn.TransactionID,
		mock.AnythingOfType("domain.Classification"), mock.AnythingOfType("time.Time"),
		suite.actor, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	resp, err := suite.service.ReclassifyCase(ctx, suite.ledgerCase.CaseID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(3, resp.Total)
	suite.Equal(1, resp.Changed)
	suite.Equal(1, resp.BucketCount[string(domain.BucketOldEstate)])
	suite.Equal(1, resp.BucketCount[string(domain.BucketNewEstate)])
	suite.Equal(1, resp.BucketCount[string(domain.BucketUnresolved)])

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockCaseRepo.AssertExpectations(suite.T())
}

func TestAllocationService(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
