package service

import (
	"context"
	"sync"

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

// keyedMutex serializes updates per resource key: branch ID for stock
// mutations, invoice ID for payment recording. Two requests touching
// different keys never contend; the same key is strictly ordered. No
// cross-resource locking exists — a sale and a payment are independent.
// Entries are never evicted: the key space is branches and invoices, a few
// thousand mutexes at the outside, so eviction would buy nothing.
type keyedMutex struct {
	mus sync.Map // key string → *sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
