package postgres

import (
	"context"
	"database/sql"

	"github.com/finlend/credit-service/internal/models"
)

// LoanStore provides loan operations backed by Postgres
type LoanStore struct {
	db *sql.DB
}

// NewLoanStore initializes a new loan store
func NewLoanStore(db *sql.DB) *LoanStore {
	return &LoanStore{db: db}
}

// Create inserts a new loan and fills in the generated id
func (s *LoanStore) Create(ctx context.Context, l *models.Loan) error {
	query := `
		INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		l.CustomerID, l.Amount, l.Tenure, l.InterestRate, l.MonthlyInstallment,
		l.EMIsPaid, l.StartDate, l.EndDate).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return storeErr("create loan", err)
	}
	return nil
}

// GetByID retrieves a loan by id
func (s *LoanStore) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	l := &models.Loan{}
	query := `
		SELECT id, customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid, start_date, end_date, created_at, updated_at
		FROM loans
		WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&l.ID, &l.CustomerID, &l.Amount, &l.Tenure, &l.InterestRate,
			&l.MonthlyInstallment, &l.EMIsPaid, &l.StartDate, &l.EndDate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, rowErr("get loan", err)
	}
	return l, nil
}

// Put upserts a loan under its explicit id
func (s *LoanStore) Put(ctx context.Context, l *models.Loan) error {
	query := `
		INSERT INTO loans (id, customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			loan_amount = EXCLUDED.loan_amount,
			tenure = EXCLUDED.tenure,
			interest_rate = EXCLUDED.interest_rate,
			monthly_installment = EXCLUDED.monthly_installment,
			emis_paid = EXCLUDED.emis_paid,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			updated_at = CURRENT_TIMESTAMP`
	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.CustomerID, l.Amount, l.Tenure, l.InterestRate,
		l.MonthlyInstallment, l.EMIsPaid, l.StartDate, l.EndDate)
	if err != nil {
		return storeErr("put loan", err)
	}
	return nil
}

// ListByCustomer returns all loans for a customer ordered by loan id
func (s *LoanStore) ListByCustomer(ctx context.Context, customerID int64) ([]models.Loan, error) {
	query := `
		SELECT id, customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid, start_date, end_date, created_at, updated_at
		FROM loans
		WHERE customer_id = $1
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, storeErr("list loans", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var l models.Loan
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.Amount, &l.Tenure, &l.InterestRate,
			&l.MonthlyInstallment, &l.EMIsPaid, &l.StartDate, &l.EndDate, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, storeErr("scan loan", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list loans", err)
	}
	return loans, nil
}
