package memory

import (
	"context"
	"sync"
	"time"

	"github.com/finlend/credit-service/internal/models"
	"github.com/finlend/credit-service/internal/repository"
)

// CustomerStore is an in-memory customer store used by tests and dry runs.
type CustomerStore struct {
	mu     sync.RWMutex
	byID   map[int64]models.Customer
	nextID int64
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{byID: make(map[int64]models.Customer), nextID: 1}
}

func (s *CustomerStore) Create(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer.ID = s.nextID
	s.nextID++
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	s.byID[customer.ID] = *customer
	return nil
}

func (s *CustomerStore) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *CustomerStore) Put(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer.UpdatedAt = time.Now()
	if _, ok := s.byID[customer.ID]; !ok {
		customer.CreatedAt = customer.UpdatedAt
		if customer.ID >= s.nextID {
			s.nextID = customer.ID + 1
		}
	}
	s.byID[customer.ID] = *customer
	return nil
}
