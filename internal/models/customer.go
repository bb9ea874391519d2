package models

import (
	"math"
	"time"
)

// Customer represents a bank customer eligible for credit
type Customer struct {
	ID            int64     `json:"customer_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Age           int       `json:"age"`
	PhoneNumber   int64     `json:"phone_number"`
	MonthlyIncome float64   `json:"monthly_income"`
	ApprovedLimit float64   `json:"approved_limit"`
	CurrentDebt   float64   `json:"current_debt"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DeriveApprovedLimit computes the credit limit extended to a customer:
// 36 times monthly income, rounded to the nearest 100000.
func DeriveApprovedLimit(monthlyIncome float64) float64 {
	return math.Round(36*monthlyIncome/100000) * 100000
}
