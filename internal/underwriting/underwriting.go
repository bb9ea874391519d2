package underwriting

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finlend/credit-service/internal/emi"
	"github.com/finlend/credit-service/internal/metrics"
	"github.com/finlend/credit-service/internal/models"
	"github.com/finlend/credit-service/internal/repository"
	"github.com/finlend/credit-service/internal/scoring"
)

// Rejection reasons returned as part of a Decision.
const (
	MsgApproved          = "loan approved"
	MsgApprovedCorrected = "loan approved with corrected interest rate"
	MsgScoreTooLow       = "credit score too low"
	MsgUnaffordable      = "EMI exceeds affordability limit"
)

// storeTimeout bounds every ledger access so a slow store surfaces as a
// transient failure instead of a hang.
const storeTimeout = 5 * time.Second

// affordabilityRatio caps total EMIs at this share of monthly income.
const affordabilityRatio = 0.5

// rateTier maps a credit-score band (lower, upper] to a minimum interest
// rate. Tiers are evaluated top-down; a score below every band is an
// outright rejection.
type rateTier struct {
	lower, upper int
	floor        float64
}

var rateTiers = []rateTier{
	{50, 100, 0},
	{30, 50, 12},
	{10, 30, 16},
}

// Decision is the structured outcome of an underwriting request.
// Rejections are decisions, not errors.
type Decision struct {
	CustomerID            int64   `json:"customer_id"`
	Approved              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
	Message               string  `json:"message"`
	CreditScore           int     `json:"-"`
	LoanID                int64   `json:"loan_id,omitempty"`
}

// RateCorrected reports whether the requested rate was bumped to a tier floor.
func (d *Decision) RateCorrected() bool {
	return d.CorrectedInterestRate != d.InterestRate
}

// Notifier delivers best-effort approval notices.
type Notifier interface {
	SendApprovalNotice(customerName string, loanID int64, amount, installment float64, tenure int) error
}

// Service runs underwriting decisions against the ledger store. It is the
// sole creator of new loans.
type Service struct {
	customers repository.CustomerStore
	loans     repository.LoanStore
	scorer    *scoring.Engine
	log       *logrus.Logger
	metrics   *metrics.Collector
	notifier  Notifier
	locks     customerLocks
	now       func() time.Time
}

// NewService initializes the underwriting service. metrics and notifier
// may be nil.
func NewService(customers repository.CustomerStore, loans repository.LoanStore, scorer *scoring.Engine, log *logrus.Logger, collector *metrics.Collector, notifier Notifier) *Service {
	return &Service{
		customers: customers,
		loans:     loans,
		scorer:    scorer,
		log:       log,
		metrics:   collector,
		notifier:  notifier,
		now:       time.Now,
	}
}

// RegisterCustomer creates a customer with a derived approved limit.
func (s *Service) RegisterCustomer(ctx context.Context, firstName, lastName string, age int, monthlyIncome float64, phoneNumber int64) (*models.Customer, error) {
	if monthlyIncome <= 0 {
		return nil, fmt.Errorf("%w: monthly income must be positive", emi.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	customer := &models.Customer{
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlyIncome: monthlyIncome,
		ApprovedLimit: models.DeriveApprovedLimit(monthlyIncome),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.log.Infof("Customer registered: %s (id=%d, limit=%.0f)", customer.FullName(), customer.ID, customer.ApprovedLimit)
	return customer, nil
}

// EvaluateEligibility runs the full decision pipeline without persisting
// anything.
func (s *Service) EvaluateEligibility(ctx context.Context, customerID int64, amount, interestRate float64, tenure int) (*Decision, error) {
	unlock := s.locks.lock(customerID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	decision, _, err := s.evaluate(ctx, customerID, amount, interestRate, tenure)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDecision(decision.Approved, decision.Message)
	return decision, nil
}

// CreateLoan runs the same decision pipeline and, on approval, persists
// the new loan and returns its id in the decision.
func (s *Service) CreateLoan(ctx context.Context, customerID int64, amount, interestRate float64, tenure int) (*Decision, error) {
	unlock := s.locks.lock(customerID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	decision, customer, err := s.evaluate(ctx, customerID, amount, interestRate, tenure)
	if err != nil {
		return nil, err
	}
	if !decision.Approved {
		s.metrics.ObserveDecision(false, decision.Message)
		s.log.Infof("Loan rejected for customer %d: %s", customerID, decision.Message)
		return decision, nil
	}

	start := s.now()
	loan := &models.Loan{
		CustomerID:         customerID,
		Amount:             amount,
		Tenure:             tenure,
		InterestRate:       decision.CorrectedInterestRate,
		MonthlyInstallment: decision.MonthlyInstallment,
		EMIsPaid:           0,
		StartDate:          start,
		EndDate:            start.AddDate(0, tenure, 0),
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	customer.CurrentDebt += amount
	if err := s.customers.Put(ctx, customer); err != nil {
		return nil, err
	}

	decision.LoanID = loan.ID
	s.metrics.ObserveDecision(true, decision.Message)
	s.metrics.ObserveInstallment(decision.MonthlyInstallment)
	s.log.Infof("Loan %d approved for customer %d: amount=%.2f rate=%.2f tenure=%d emi=%.2f",
		loan.ID, customerID, amount, decision.CorrectedInterestRate, tenure, decision.MonthlyInstallment)

	if s.notifier != nil {
		if err := s.notifier.SendApprovalNotice(customer.FullName(), loan.ID, amount, decision.MonthlyInstallment, tenure); err != nil {
			s.log.Warnf("Approval notice for loan %d not sent: %v", loan.ID, err)
		}
	}

	return decision, nil
}

// evaluate is shared by the dry-run and committing entry points so the
// two can never drift apart.
func (s *Service) evaluate(ctx context.Context, customerID int64, amount, interestRate float64, tenure int) (*Decision, *models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	// Validate the arithmetic parameters up front so a malformed request
	// fails the same way in every score band.
	if _, err := emi.Compute(amount, interestRate, tenure); err != nil {
		return nil, nil, err
	}

	loans, err := s.loans.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	score := s.scorer.Compute(customer, loans)

	decision := &Decision{
		CustomerID:            customerID,
		InterestRate:          interestRate,
		CorrectedInterestRate: interestRate,
		Tenure:                tenure,
		CreditScore:           score,
	}

	tier, ok := lookupTier(score)
	if !ok {
		decision.Message = MsgScoreTooLow
		// Surface the would-be installment even on rejection.
		installment, _ := emi.Compute(amount, interestRate, tenure)
		decision.MonthlyInstallment = installment
		return decision, customer, nil
	}

	if interestRate < tier.floor {
		decision.CorrectedInterestRate = tier.floor
	}

	installment, err := emi.Compute(amount, decision.CorrectedInterestRate, tenure)
	if err != nil {
		return nil, nil, err
	}
	decision.MonthlyInstallment = installment

	var currentEMIs float64
	for i := range loans {
		if loans[i].Outstanding() {
			currentEMIs += loans[i].MonthlyInstallment
		}
	}
	if currentEMIs+installment > affordabilityRatio*customer.MonthlyIncome {
		decision.Message = MsgUnaffordable
		return decision, customer, nil
	}

	decision.Approved = true
	if decision.RateCorrected() {
		decision.Message = MsgApprovedCorrected
	} else {
		decision.Message = MsgApproved
	}
	return decision, customer, nil
}

func lookupTier(score int) (rateTier, bool) {
	for _, tier := range rateTiers {
		if score > tier.lower && score <= tier.upper {
			return tier, true
		}
	}
	return rateTier{}, false
}

// GetLoan returns a loan together with its owning customer.
func (s *Service) GetLoan(ctx context.Context, loanID int64) (*models.Loan, *models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.customers.GetByID(ctx, loan.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	return loan, customer, nil
}

// ListLoans returns all loans for a customer ordered by loan id.
func (s *Service) ListLoans(ctx context.Context, customerID int64) ([]models.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.loans.ListByCustomer(ctx, customerID)
}
