// Property-based tests for concurrent balance safety.
package lock

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// requireFree fails the test if the user's lock cannot be acquired promptly,
// which would mean an earlier operation leaked a held lock.
func requireFree(t *rapid.T, ul *UserLock, userID string) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		ul.Lock(userID)
		ul.Unlock(userID)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Lock for %s still held after all operations completed", userID)
	}
}

// TestConcurrentBalanceSafetyProperty verifies that concurrent balance
// operations on the same user, each performed under the user's lock, produce
// the same final balance as sequential execution.
func TestConcurrentBalanceSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialBalance := rapid.Int64Range(1000, 100000).Draw(t, "initialBalance")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")

		amounts := make([]int64, numOps)
		expectedFinalBalance := initialBalance
		for i := 0; i < numOps; i++ {
			amounts[i] = rapid.Int64Range(-500, 500).Draw(t, "amount")
			expectedFinalBalance += amounts[i]
		}

		userID := fmt.Sprintf("user-%d", rapid.Int64Range(1, 1000000).Draw(t, "userID"))

		ul := NewUserLock()
		balance := initialBalance

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(amount int64) {
				defer wg.Done()
				ul.Lock(userID)
				defer ul.Unlock(userID)
				// Read-modify-write under the lock
				balance += amount
			}(amount)
		}
		wg.Wait()

		if balance != expectedFinalBalance {
			t.Fatalf("Balance mismatch with locking: expected %d, got %d (initial=%d, numOps=%d)",
				expectedFinalBalance, balance, initialBalance, numOps)
		}
		requireFree(t, ul, userID)
	})
}

// TestWithLockSerializesProperty verifies WithLock gives the same guarantee
// as explicit Lock/Unlock pairs and propagates the callback's error.
func TestWithLockSerializesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")
		userID := fmt.Sprintf("user-%d", rapid.Int64Range(1, 1000000).Draw(t, "userID"))

		ul := NewUserLock()
		counter := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				_ = ul.WithLock(userID, func() error {
					counter++
					return nil
				})
			}()
		}
		wg.Wait()

		if counter != numOps {
			t.Fatalf("WithLock lost updates: expected %d, got %d", numOps, counter)
		}
		requireFree(t, ul, userID)
	})
}

// TestMultipleUsersIndependentLocksProperty verifies that locks for different
// users are independent and every user's balance stays consistent.
func TestMultipleUsersIndependentLocksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		opsPerUser := rapid.IntRange(5, 20).Draw(t, "opsPerUser")

		balances := make(map[string]*int64)
		expected := make(map[string]int64)
		for i := 0; i < numUsers; i++ {
			userID := fmt.Sprintf("user-%d", i+1)
			initial := rapid.Int64Range(1000, 10000).Draw(t, "initialBalance")
			b := initial
			balances[userID] = &b
			expected[userID] = initial + int64(opsPerUser)*10
		}

		ul := NewUserLock()

		var wg sync.WaitGroup
		wg.Add(numUsers * opsPerUser)
		for userID := range balances {
			for j := 0; j < opsPerUser; j++ {
				go func(uid string) {
					defer wg.Done()
					ul.Lock(uid)
					defer ul.Unlock(uid)
					*balances[uid] += 10
				}(userID)
			}
		}
		wg.Wait()

		for userID, want := range expected {
			if *balances[userID] != want {
				t.Fatalf("User %s balance mismatch: expected %d, got %d",
					userID, want, *balances[userID])
			}
			requireFree(t, ul, userID)
		}
	})
}

// TestLockUnlockSymmetry verifies repeated lock/unlock cycles leave the lock free.
func TestLockUnlockSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := fmt.Sprintf("user-%d", rapid.Int64Range(1, 1000000).Draw(t, "userID"))
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		ul := NewUserLock()
		for i := 0; i < numCycles; i++ {
			ul.Lock(userID)
			ul.Unlock(userID)
		}
		requireFree(t, ul, userID)
	})
}
