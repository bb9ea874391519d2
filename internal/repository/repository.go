package repository

import (
	"context"
	"errors"

	"github.com/finlend/credit-service/internal/models"
)

var (
	// ErrNotFound is returned when a customer or loan id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable is returned for transient store failures;
	// callers may retry with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// CustomerStore provides atomic per-record access to customers.
type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	// Put writes a customer under its explicit id, inserting or replacing.
	Put(ctx context.Context, customer *models.Customer) error
}

// LoanStore provides atomic per-record access to loans.
type LoanStore interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id int64) (*models.Loan, error)
	// Put writes a loan under its explicit id, inserting or replacing.
	Put(ctx context.Context, loan *models.Loan) error
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Loan, error)
}
