package ledger

import "sync"

// =============================================================================
// KEY MUTEX - Per-key serialization for ledger operations
// =============================================================================

// KeyMutex serializes operations against the same ledger key (customerID or
// employeeID) while operations on unrelated keys run in parallel. This closes
// the lost-update hazard: two allocators racing on one customer's outstanding
// debts queue instead of double-allocating.
//
// Locks are created on demand and removed when the last holder releases,
// so the map does not grow with the key space.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the mutex for key and returns the unlock function.
//
//	unlock := km.Lock(string(customerID))
//	defer unlock()
func (km *KeyMutex) Lock(key string) func() {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &keyLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		km.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(km.locks, key)
		}
		km.mu.Unlock()
	}
}
