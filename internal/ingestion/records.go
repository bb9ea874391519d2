package ingestion

import "time"

// CustomerRecord is an external customer row keyed by its external id.
// Nil fields were absent from the source and must not overwrite stored
// values.
type CustomerRecord struct {
	CustomerID    int64
	FirstName     *string
	LastName      *string
	Age           *int
	PhoneNumber   *int64
	MonthlySalary *float64
	ApprovedLimit *float64
	CurrentDebt   *float64
}

// LoanRecord is an external loan row keyed by its external id. Nil
// fields were absent from the source.
type LoanRecord struct {
	LoanID             int64
	CustomerID         int64
	Amount             *float64
	Tenure             *int
	InterestRate       *float64
	MonthlyInstallment *float64
	EMIsPaid           *int
	StartDate          *time.Time
	EndDate            *time.Time
}

// RecordError describes one row that could not be ingested. Row errors
// never abort sibling records.
type RecordError struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Summary reports the net effect of one reconciliation run. Re-running
// an unchanged batch yields zero creates and updates.
type Summary struct {
	RunID            string        `json:"run_id"`
	CustomersCreated int           `json:"customers_created"`
	CustomersUpdated int           `json:"customers_updated"`
	LoansCreated     int           `json:"loans_created"`
	LoansUpdated     int           `json:"loans_updated"`
	Errors           []RecordError `json:"errors,omitempty"`
}
