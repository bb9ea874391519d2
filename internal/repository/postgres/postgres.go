package postgres

import (
	"database/sql"
	"fmt"

	"github.com/finlend/credit-service/internal/repository"
)

var (
	_ repository.CustomerStore = (*CustomerStore)(nil)
	_ repository.LoanStore     = (*LoanStore)(nil)
)

// storeErr wraps a driver failure so callers can detect it as transient
// and retry, while keeping the original error in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, repository.ErrStoreUnavailable, err)
}

func rowErr(op string, err error) error {
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	return storeErr(op, err)
}
