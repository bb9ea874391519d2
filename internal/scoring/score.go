package scoring

import (
	"time"

	"github.com/finlend/credit-service/internal/models"
)

// Component maxima and the baseline for customers with no history.
const (
	maxOnTimePoints      = 35
	maxLoanCountPoints   = 20
	maxCurrentYearPoints = 20
	maxVolumePoints      = 25

	// BaselineScore is assigned to customers with no loans on record.
	// It lands in the 12%-floor underwriting band, so a first loan is
	// approvable but never at the uncorrected tier.
	BaselineScore = 50
)

// loanCountPoints maps the number of historical loans to the loan-count
// component. More loans reduce the component; monotonically non-increasing
// and floored at 0.
var loanCountPoints = []struct {
	minLoans int
	points   int
}{
	{9, 0},
	{7, 5},
	{5, 10},
	{3, 15},
	{1, 20},
}

// pointsPerCurrentYearLoan scales the current-year activity component,
// capped at maxCurrentYearPoints.
const pointsPerCurrentYearLoan = 5

// Engine computes creditworthiness scores from loan history.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt returns an engine pinned to a fixed clock.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Compute returns the customer's credit score in [0, 100].
//
// If the sum of outstanding principals exceeds the approved limit the
// score is 0 and nothing else is evaluated. Otherwise the score is the
// sum of four independently capped components: on-time repayment (35),
// loan count (20), current-year activity (20) and approved volume (25).
func (e *Engine) Compute(customer *models.Customer, loans []models.Loan) int {
	if len(loans) == 0 {
		return BaselineScore
	}

	now := e.now()

	var outstandingSum float64
	for i := range loans {
		if loans[i].Outstanding() {
			outstandingSum += loans[i].Amount
		}
	}
	if outstandingSum > customer.ApprovedLimit {
		return 0
	}

	score := e.onTimeComponent(loans, now)
	score += loanCountComponent(len(loans))
	score += currentYearComponent(loans, now)
	score += volumeComponent(loans, customer.ApprovedLimit)

	return clamp(score, 0, 100)
}

// onTimeComponent: fraction of loans whose paid-EMI count keeps up with
// the installments due so far. Loans with nothing due yet carry no
// repayment history and count for neither side.
func (e *Engine) onTimeComponent(loans []models.Loan, now time.Time) int {
	counted := 0
	onTime := 0
	for i := range loans {
		due := loans[i].EMIsDue(now)
		if due == 0 {
			continue
		}
		counted++
		if loans[i].EMIsPaid >= due {
			onTime++
		}
	}
	if counted == 0 {
		return 0
	}
	return int(float64(maxOnTimePoints) * float64(onTime) / float64(counted))
}

func loanCountComponent(count int) int {
	for _, row := range loanCountPoints {
		if count >= row.minLoans {
			return row.points
		}
	}
	return 0
}

func currentYearComponent(loans []models.Loan, now time.Time) int {
	year := now.Year()
	count := 0
	for i := range loans {
		if loans[i].StartDate.Year() == year {
			count++
		}
	}
	points := count * pointsPerCurrentYearLoan
	if points > maxCurrentYearPoints {
		return maxCurrentYearPoints
	}
	return points
}

func volumeComponent(loans []models.Loan, approvedLimit float64) int {
	if approvedLimit <= 0 {
		return 0
	}
	var total float64
	for i := range loans {
		total += loans[i].Amount
	}
	points := float64(maxVolumePoints) * total / approvedLimit
	if points > maxVolumePoints {
		return maxVolumePoints
	}
	return int(points)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
