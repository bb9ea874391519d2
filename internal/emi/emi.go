package emi

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for arithmetic parameters a loan can never
// legitimately carry.
var ErrInvalidInput = errors.New("invalid input")

// Compute returns the equated monthly installment for a loan using the
// standard compound-interest amortization formula:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate (annual / 12 / 100) and n the tenure in
// months. A zero rate degenerates to principal / tenure. The result is
// rounded half away from zero to 2 decimal places.
func Compute(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	if principal <= 0 {
		return 0, fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidInput, principal)
	}
	if tenureMonths <= 0 {
		return 0, fmt.Errorf("%w: tenure must be positive, got %d", ErrInvalidInput, tenureMonths)
	}
	if annualRatePercent < 0 {
		return 0, fmt.Errorf("%w: interest rate must not be negative, got %.2f", ErrInvalidInput, annualRatePercent)
	}

	if annualRatePercent == 0 {
		return round2(principal / float64(tenureMonths)), nil
	}

	monthlyRate := annualRatePercent / 12 / 100
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	installment := principal * monthlyRate * factor / (factor - 1)
	return round2(installment), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
