package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveApprovedLimit(t *testing.T) {
	// 36 x income rounded to the nearest 100000.
	assert.Equal(t, 1800000.0, DeriveApprovedLimit(50000))
	assert.Equal(t, 2300000.0, DeriveApprovedLimit(65000))
	assert.Equal(t, 0.0, DeriveApprovedLimit(1000))
}

func TestLoanEMIsDue(t *testing.T) {
	start := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	loan := Loan{Tenure: 12, StartDate: start}

	assert.Equal(t, 0, loan.EMIsDue(start))
	assert.Equal(t, 0, loan.EMIsDue(start.AddDate(0, 0, 20)))
	assert.Equal(t, 1, loan.EMIsDue(start.AddDate(0, 1, 0)))
	assert.Equal(t, 6, loan.EMIsDue(start.AddDate(0, 6, 0)))
	// Capped at the tenure once the term has run out.
	assert.Equal(t, 12, loan.EMIsDue(start.AddDate(3, 0, 0)))
	// Before the start date nothing is due.
	assert.Equal(t, 0, loan.EMIsDue(start.AddDate(0, -2, 0)))
}

func TestLoanOutstanding(t *testing.T) {
	assert.True(t, (&Loan{Tenure: 12, EMIsPaid: 11}).Outstanding())
	assert.False(t, (&Loan{Tenure: 12, EMIsPaid: 12}).Outstanding())
}

func TestLoanRepaymentsLeft(t *testing.T) {
	assert.Equal(t, 6, (&Loan{Tenure: 12, EMIsPaid: 6}).RepaymentsLeft())
	assert.Equal(t, 0, (&Loan{Tenure: 12, EMIsPaid: 14}).RepaymentsLeft())
}
