package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finlend/credit-service/internal/emi"
	"github.com/finlend/credit-service/internal/metrics"
	"github.com/finlend/credit-service/internal/models"
	"github.com/finlend/credit-service/internal/repository"
)

// ErrDanglingReference marks a loan row whose customer is not on the
// ledger. The row is skipped; the batch continues.
var ErrDanglingReference = errors.New("dangling customer reference")

// Reconciler upserts external customer and loan records into the ledger
// store. Runs are idempotent: an unchanged record is a no-op, and a
// changed one overwrites only the fields present in the source.
type Reconciler struct {
	customers repository.CustomerStore
	loans     repository.LoanStore
	log       *logrus.Logger
	metrics   *metrics.Collector
}

// NewReconciler initializes a reconciler. collector may be nil.
func NewReconciler(customers repository.CustomerStore, loans repository.LoanStore, log *logrus.Logger, collector *metrics.Collector) *Reconciler {
	return &Reconciler{customers: customers, loans: loans, log: log, metrics: collector}
}

// Ingest reconciles one batch, customers before loans. Row failures are
// accumulated in the summary and never abort sibling rows.
func (r *Reconciler) Ingest(ctx context.Context, customerRecords []CustomerRecord, loanRecords []LoanRecord) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}

	for i, rec := range customerRecords {
		if err := r.upsertCustomer(ctx, rec, summary); err != nil {
			summary.Errors = append(summary.Errors, RecordError{
				Source: "customers",
				Line:   i + 1,
				Reason: err.Error(),
			})
		}
	}

	for i, rec := range loanRecords {
		if err := r.upsertLoan(ctx, rec, summary); err != nil {
			summary.Errors = append(summary.Errors, RecordError{
				Source: "loans",
				Line:   i + 1,
				Reason: err.Error(),
			})
		}
	}

	r.metrics.AddIngested("customer", "created", summary.CustomersCreated)
	r.metrics.AddIngested("customer", "updated", summary.CustomersUpdated)
	r.metrics.AddIngested("loan", "created", summary.LoansCreated)
	r.metrics.AddIngested("loan", "updated", summary.LoansUpdated)
	r.metrics.AddIngestionErrors(len(summary.Errors))

	r.log.Infof("Reconciliation run %s: customers %d created / %d updated, loans %d created / %d updated, %d errors",
		summary.RunID, summary.CustomersCreated, summary.CustomersUpdated,
		summary.LoansCreated, summary.LoansUpdated, len(summary.Errors))

	return summary, nil
}

func (r *Reconciler) upsertCustomer(ctx context.Context, rec CustomerRecord, summary *Summary) error {
	if rec.CustomerID <= 0 {
		return fmt.Errorf("invalid customer_id %d", rec.CustomerID)
	}

	existing, err := r.customers.GetByID(ctx, rec.CustomerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("read customer %d: %w", rec.CustomerID, err)
	}

	if existing == nil {
		customer := &models.Customer{ID: rec.CustomerID}
		applyCustomerRecord(rec, customer)
		if customer.ApprovedLimit == 0 && customer.MonthlyIncome > 0 {
			customer.ApprovedLimit = models.DeriveApprovedLimit(customer.MonthlyIncome)
		}
		if err := r.customers.Put(ctx, customer); err != nil {
			return fmt.Errorf("create customer %d: %w", rec.CustomerID, err)
		}
		summary.CustomersCreated++
		return nil
	}

	if changed := applyCustomerRecord(rec, existing); !changed {
		return nil
	}
	if err := r.customers.Put(ctx, existing); err != nil {
		return fmt.Errorf("update customer %d: %w", rec.CustomerID, err)
	}
	summary.CustomersUpdated++
	return nil
}

func (r *Reconciler) upsertLoan(ctx context.Context, rec LoanRecord, summary *Summary) error {
	if rec.LoanID <= 0 {
		return fmt.Errorf("invalid loan_id %d", rec.LoanID)
	}
	if _, err := r.customers.GetByID(ctx, rec.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("loan %d: %w: customer %d", rec.LoanID, ErrDanglingReference, rec.CustomerID)
		}
		return fmt.Errorf("loan %d: read customer %d: %w", rec.LoanID, rec.CustomerID, err)
	}

	existing, err := r.loans.GetByID(ctx, rec.LoanID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("read loan %d: %w", rec.LoanID, err)
	}

	if existing == nil {
		loan := &models.Loan{ID: rec.LoanID, CustomerID: rec.CustomerID}
		applyLoanRecord(rec, loan)
		if loan.MonthlyInstallment == 0 && loan.Amount > 0 && loan.Tenure > 0 {
			installment, emiErr := emi.Compute(loan.Amount, loan.InterestRate, loan.Tenure)
			if emiErr != nil {
				return fmt.Errorf("loan %d: derive installment: %w", rec.LoanID, emiErr)
			}
			loan.MonthlyInstallment = installment
		}
		if loan.EndDate.IsZero() && !loan.StartDate.IsZero() && loan.Tenure > 0 {
			loan.EndDate = loan.StartDate.AddDate(0, loan.Tenure, 0)
		}
		if err := r.loans.Put(ctx, loan); err != nil {
			return fmt.Errorf("create loan %d: %w", rec.LoanID, err)
		}
		summary.LoansCreated++
		return nil
	}

	if changed := applyLoanRecord(rec, existing); !changed {
		return nil
	}
	if err := r.loans.Put(ctx, existing); err != nil {
		return fmt.Errorf("update loan %d: %w", rec.LoanID, err)
	}
	summary.LoansUpdated++
	return nil
}

// applyCustomerRecord copies source-present fields onto the customer and
// reports whether anything actually changed.
func applyCustomerRecord(rec CustomerRecord, c *models.Customer) bool {
	changed := false
	if rec.FirstName != nil && *rec.FirstName != c.FirstName {
		c.FirstName = *rec.FirstName
		changed = true
	}
	if rec.LastName != nil && *rec.LastName != c.LastName {
		c.LastName = *rec.LastName
		changed = true
	}
	if rec.Age != nil && *rec.Age != c.Age {
		c.Age = *rec.Age
		changed = true
	}
	if rec.PhoneNumber != nil && *rec.PhoneNumber != c.PhoneNumber {
		c.PhoneNumber = *rec.PhoneNumber
		changed = true
	}
	if rec.MonthlySalary != nil && *rec.MonthlySalary != c.MonthlyIncome {
		c.MonthlyIncome = *rec.MonthlySalary
		changed = true
	}
	if rec.ApprovedLimit != nil && *rec.ApprovedLimit != c.ApprovedLimit {
		c.ApprovedLimit = *rec.ApprovedLimit
		changed = true
	}
	if rec.CurrentDebt != nil && *rec.CurrentDebt != c.CurrentDebt {
		c.CurrentDebt = *rec.CurrentDebt
		changed = true
	}
	return changed
}

func applyLoanRecord(rec LoanRecord, l *models.Loan) bool {
	changed := false
	if rec.CustomerID != 0 && rec.CustomerID != l.CustomerID {
		l.CustomerID = rec.CustomerID
		changed = true
	}
	if rec.Amount != nil && *rec.Amount != l.Amount {
		l.Amount = *rec.Amount
		changed = true
	}
	if rec.Tenure != nil && *rec.Tenure != l.Tenure {
		l.Tenure = *rec.Tenure
		changed = true
	}
	if rec.InterestRate != nil && *rec.InterestRate != l.InterestRate {
		l.InterestRate = *rec.InterestRate
		changed = true
	}
	if rec.MonthlyInstallment != nil && *rec.MonthlyInstallment != l.MonthlyInstallment {
		l.MonthlyInstallment = *rec.MonthlyInstallment
		changed = true
	}
	if rec.EMIsPaid != nil && *rec.EMIsPaid != l.EMIsPaid {
		l.EMIsPaid = *rec.EMIsPaid
		changed = true
	}
	if rec.StartDate != nil && !rec.StartDate.Equal(l.StartDate) {
		l.StartDate = *rec.StartDate
		changed = true
	}
	if rec.EndDate != nil && !rec.EndDate.Equal(l.EndDate) {
		l.EndDate = *rec.EndDate
		changed = true
	}
	return changed
}
