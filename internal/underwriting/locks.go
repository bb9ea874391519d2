package underwriting

import "sync"

// customerLocks serializes underwriting for a single customer so two
// concurrent requests cannot both pass the affordability check against a
// stale outstanding-EMI sum. Requests for different customers proceed in
// parallel.
type customerLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (c *customerLocks) lock(customerID int64) (unlock func()) {
	c.mu.Lock()
	if c.locks == nil {
		c.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := c.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[customerID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
