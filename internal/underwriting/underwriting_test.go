package underwriting

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlend/credit-service/internal/models"
	"github.com/finlend/credit-service/internal/repository"
	"github.com/finlend/credit-service/internal/repository/memory"
	"github.com/finlend/credit-service/internal/scoring"
)

var testNow = time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	customers *memory.CustomerStore
	loans     *memory.LoanStore
}

func newFixture() *fixture {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	customers := memory.NewCustomerStore()
	loans := memory.NewLoanStore()
	scorer := scoring.NewEngineAt(func() time.Time { return testNow })

	svc := NewService(customers, loans, scorer, logger, nil, nil)
	svc.now = func() time.Time { return testNow }

	return &fixture{svc: svc, customers: customers, loans: loans}
}

func (f *fixture) addCustomer(t *testing.T, income float64) *models.Customer {
	t.Helper()
	c, err := f.svc.RegisterCustomer(context.Background(), "Asha", "Verma", 32, income, 9876543210)
	require.NoError(t, err)
	return c
}

func TestRegisterCustomerDerivesLimit(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 50000)
	assert.Equal(t, 1800000.0, c.ApprovedLimit)
}

func TestEvaluateUnknownCustomer(t *testing.T) {
	f := newFixture()
	_, err := f.svc.EvaluateEligibility(context.Background(), 99, 100000, 10, 12)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFirstLoanGetsBaselineTier(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 50000)

	// Baseline score 50 lands in the (30, 50] band, so a requested 10%
	// is corrected up to the 12% floor.
	d, err := f.svc.CreateLoan(context.Background(), c.ID, 100000, 10, 12)
	require.NoError(t, err)

	assert.True(t, d.Approved)
	assert.True(t, d.RateCorrected())
	assert.Equal(t, 12.0, d.CorrectedInterestRate)
	assert.Equal(t, 8884.88, d.MonthlyInstallment)
	assert.Equal(t, MsgApprovedCorrected, d.Message)
	assert.NotZero(t, d.LoanID)

	loan, err := f.loans.GetByID(context.Background(), d.LoanID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, loan.InterestRate)
	assert.Equal(t, 8884.88, loan.MonthlyInstallment)
	assert.Equal(t, testNow.AddDate(0, 12, 0), loan.EndDate)
}

func TestHighScoreKeepsRequestedRate(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 100000)

	// Spotless repaid history in a prior year: 35 + 20 + 0 + volume.
	start := testNow.AddDate(-3, 0, 0)
	require.NoError(t, f.loans.Put(context.Background(), &models.Loan{
		ID: 100, CustomerID: c.ID, Amount: 200000, Tenure: 12, InterestRate: 12,
		MonthlyInstallment: 17769.76, EMIsPaid: 12,
		StartDate: start, EndDate: start.AddDate(0, 12, 0),
	}))

	d, err := f.svc.EvaluateEligibility(context.Background(), c.ID, 100000, 10, 12)
	require.NoError(t, err)

	assert.True(t, d.Approved)
	assert.False(t, d.RateCorrected())
	assert.Equal(t, 10.0, d.CorrectedInterestRate)
	assert.Equal(t, MsgApproved, d.Message)
}

func TestZeroScoreRejectsOutright(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 50000)

	// Outstanding principal above the approved limit forces score 0.
	require.NoError(t, f.loans.Put(context.Background(), &models.Loan{
		ID: 100, CustomerID: c.ID, Amount: 2500000, Tenure: 120, InterestRate: 10,
		MonthlyInstallment: 25000, EMIsPaid: 6,
		StartDate: testNow.AddDate(0, -6, 0), EndDate: testNow.AddDate(9, 6, 0),
	}))

	d, err := f.svc.CreateLoan(context.Background(), c.ID, 100000, 10, 12)
	require.NoError(t, err)

	assert.False(t, d.Approved)
	assert.Equal(t, MsgScoreTooLow, d.Message)
	assert.Zero(t, d.LoanID)
}

func TestAffordabilityRejectionBeatsGoodScore(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 10000)

	// Outstanding EMIs already eat 60% of income; the history itself is
	// on time, so the score is comfortably above 50.
	start := testNow.AddDate(0, -12, 0)
	require.NoError(t, f.loans.Put(context.Background(), &models.Loan{
		ID: 100, CustomerID: c.ID, Amount: 100000, Tenure: 24, InterestRate: 12,
		MonthlyInstallment: 6000, EMIsPaid: 12,
		StartDate: start, EndDate: start.AddDate(0, 24, 0),
	}))

	d, err := f.svc.CreateLoan(context.Background(), c.ID, 20000, 18, 12)
	require.NoError(t, err)

	assert.False(t, d.Approved)
	assert.Equal(t, MsgUnaffordable, d.Message)
	assert.Zero(t, d.LoanID)
}

func TestEvaluateAndCreateNeverDrift(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 50000)

	ctx := context.Background()
	eval, err := f.svc.EvaluateEligibility(ctx, c.ID, 100000, 10, 12)
	require.NoError(t, err)

	created, err := f.svc.CreateLoan(ctx, c.ID, 100000, 10, 12)
	require.NoError(t, err)

	assert.Equal(t, eval.Approved, created.Approved)
	assert.Equal(t, eval.CorrectedInterestRate, created.CorrectedInterestRate)
	assert.Equal(t, eval.MonthlyInstallment, created.MonthlyInstallment)
	assert.Equal(t, eval.Message, created.Message)
}

func TestEvaluatePersistsNothing(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 50000)

	_, err := f.svc.EvaluateEligibility(context.Background(), c.ID, 100000, 10, 12)
	require.NoError(t, err)

	loans, err := f.loans.ListByCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestConcurrentRequestsSameCustomerSerialized(t *testing.T) {
	f := newFixture()
	// 50% of 20000 caps total EMIs at 10000; one 12%-corrected EMI of
	// 8884.88 fits, two do not. Without per-customer serialization both
	// could pass the affordability check against the empty ledger.
	c := f.addCustomer(t, 20000)

	var wg sync.WaitGroup
	decisions := make([]*Decision, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := f.svc.CreateLoan(context.Background(), c.ID, 100000, 10, 12)
			if !assert.NoError(t, err) {
				return
			}
			decisions[i] = d
		}(i)
	}
	wg.Wait()

	approved := 0
	for _, d := range decisions {
		if d != nil && d.Approved {
			approved++
		}
	}
	assert.Equal(t, 1, approved)
}

func TestInvalidLoanParameters(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 50000)

	_, err := f.svc.EvaluateEligibility(context.Background(), c.ID, -1000, 10, 12)
	assert.Error(t, err)

	_, err = f.svc.EvaluateEligibility(context.Background(), c.ID, 100000, 10, 0)
	assert.Error(t, err)
}

func TestListLoansIncludesRepaymentsLeft(t *testing.T) {
	f := newFixture()
	c := f.addCustomer(t, 50000)

	start := testNow.AddDate(0, -6, 0)
	require.NoError(t, f.loans.Put(context.Background(), &models.Loan{
		ID: 1, CustomerID: c.ID, Amount: 100000, Tenure: 12, InterestRate: 12,
		MonthlyInstallment: 8884.88, EMIsPaid: 6,
		StartDate: start, EndDate: start.AddDate(0, 12, 0),
	}))

	loans, err := f.svc.ListLoans(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, 6, loans[0].RepaymentsLeft())
}
