// Package lock provides per-user locking for concurrent balance operations.
package lock

import "sync"

// UserLock provides per-user locking so that read-modify-write sequences on a
// user's balance stay serialized even when commands and reaction events for the
// same user arrive concurrently. Mutexes live for the process lifetime; the
// user population is small and entries are never reclaimed.
type UserLock struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{}
}

// getLock retrieves or creates a mutex for the given user ID.
func (ul *UserLock) getLock(userID string) *sync.Mutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}
	actual, _ := ul.locks.LoadOrStore(userID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Lock acquires the lock for a user.
// This should be called before any balance-modifying operation.
func (ul *UserLock) Lock(userID string) {
	ul.getLock(userID).Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID string) {
	if v, ok := ul.locks.Load(userID); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// WithLock executes a function while holding the user's lock.
func (ul *UserLock) WithLock(userID string, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}
