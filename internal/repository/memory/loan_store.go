package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finlend/credit-service/internal/models"
	"github.com/finlend/credit-service/internal/repository"
)

// LoanStore is an in-memory loan store used by tests and dry runs.
type LoanStore struct {
	mu     sync.RWMutex
	byID   map[int64]models.Loan
	nextID int64
}

func NewLoanStore() *LoanStore {
	return &LoanStore{byID: make(map[int64]models.Loan), nextID: 1}
}

func (s *LoanStore) Create(ctx context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan.ID = s.nextID
	s.nextID++
	now := time.Now()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	s.byID[loan.ID] = *loan
	return nil
}

func (s *LoanStore) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (s *LoanStore) Put(ctx context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan.UpdatedAt = time.Now()
	if _, ok := s.byID[loan.ID]; !ok {
		loan.CreatedAt = loan.UpdatedAt
		if loan.ID >= s.nextID {
			s.nextID = loan.ID + 1
		}
	}
	s.byID[loan.ID] = *loan
	return nil
}

func (s *LoanStore) ListByCustomer(ctx context.Context, customerID int64) ([]models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var loans []models.Loan
	for _, l := range s.byID {
		if l.CustomerID == customerID {
			loans = append(loans, l)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}
