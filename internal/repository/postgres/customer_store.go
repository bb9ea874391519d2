package postgres

import (
	"context"
	"database/sql"

	"github.com/finlend/credit-service/internal/models"
)

// CustomerStore provides customer operations backed by Postgres
type CustomerStore struct {
	db *sql.DB
}

// NewCustomerStore initializes a new customer store
func NewCustomerStore(db *sql.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// Create inserts a new customer and fills in the generated id
func (s *CustomerStore) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, age, phone_number, monthly_income, approved_limit, current_debt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		c.FirstName, c.LastName, c.Age, c.PhoneNumber, c.MonthlyIncome, c.ApprovedLimit, c.CurrentDebt).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return storeErr("create customer", err)
	}
	return nil
}

// GetByID retrieves a customer by id
func (s *CustomerStore) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	c := &models.Customer{}
	query := `
		SELECT id, first_name, last_name, age, phone_number, monthly_income, approved_limit, current_debt, created_at, updated_at
		FROM customers
		WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.PhoneNumber,
			&c.MonthlyIncome, &c.ApprovedLimit, &c.CurrentDebt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, rowErr("get customer", err)
	}
	return c, nil
}

// Put upserts a customer under its explicit id
func (s *CustomerStore) Put(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, age, phone_number, monthly_income, approved_limit, current_debt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			age = EXCLUDED.age,
			phone_number = EXCLUDED.phone_number,
			monthly_income = EXCLUDED.monthly_income,
			approved_limit = EXCLUDED.approved_limit,
			current_debt = EXCLUDED.current_debt,
			updated_at = CURRENT_TIMESTAMP`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Age, c.PhoneNumber,
		c.MonthlyIncome, c.ApprovedLimit, c.CurrentDebt)
	if err != nil {
		return storeErr("put customer", err)
	}
	return nil
}
