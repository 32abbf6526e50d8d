package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// CustomerLocks serializes billing mutations per customer. Concurrent
// attempts to pay and to accrue interest on the same customer's receipts
// must not interleave; unrelated customers proceed independently, so the
// scope is one mutex per customer, never a global lock.
//
// Entries are never evicted — the map is bounded by the customer count,
// which is small for this operator.
type CustomerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewCustomerLocks() *CustomerLocks {
	return &CustomerLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the customer's mutex and returns its unlock function.
func (l *CustomerLocks) Lock(customerID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[customerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[customerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
