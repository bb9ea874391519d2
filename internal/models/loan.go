package models

import "time"

// Loan represents a loan extended to a customer. MonthlyInstallment is
// fixed at creation time and never recomputed.
type Loan struct {
	ID                 int64     `json:"loan_id"`
	CustomerID         int64     `json:"customer_id"`
	Amount             float64   `json:"loan_amount"`
	Tenure             int       `json:"tenure"`
	InterestRate       float64   `json:"interest_rate"`
	MonthlyInstallment float64   `json:"monthly_installment"`
	EMIsPaid           int       `json:"emis_paid_on_time"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Outstanding reports whether the loan is not yet fully repaid.
func (l *Loan) Outstanding() bool {
	return l.EMIsPaid < l.Tenure
}

// EMIsDue returns how many installments have fallen due by now:
// full months elapsed since the start date, capped at the tenure.
func (l *Loan) EMIsDue(now time.Time) int {
	due := monthsBetween(l.StartDate, now)
	if due > l.Tenure {
		due = l.Tenure
	}
	return due
}

// RepaymentsLeft returns the number of installments still owed.
func (l *Loan) RepaymentsLeft() int {
	left := l.Tenure - l.EMIsPaid
	if left < 0 {
		return 0
	}
	return left
}

func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
