// Package lockout tracks consecutive failed login attempts per identity.
// It is bookkeeping internal to the credential store: the gate never sees
// counters, only the LockedOut outcome.
package lockout

import (
	"context"
	"sync"
	"time"
)

// Tracker records failed password attempts inside a rolling window.
// An identity is locked while its failure count has reached the
// configured threshold; a successful login resets the count.
type Tracker interface {
	// RecordFailure increments the failure counter and returns the new
	// count. The first failure opens the window; the counter expires
	// with it.
	RecordFailure(ctx context.Context, identityID string) (int, error)

	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, identityID string) error

	// Locked reports whether the identity is currently inside a lockout
	// window.
	Locked(ctx context.Context, identityID string) (bool, error)
}

// MemoryTracker is the in-process Tracker used by tests and single-node
// deployments without Redis.
type MemoryTracker struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	now       func() time.Time
	entries   map[string]*memoryEntry
}

type memoryEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryTracker(threshold int, window time.Duration) *MemoryTracker {
	return &MemoryTracker{
		threshold: threshold,
		window:    window,
		now:       time.Now,
		entries:   make(map[string]*memoryEntry),
	}
}

func (t *MemoryTracker) RecordFailure(_ context.Context, identityID string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entries[identityID]
	if e == nil || t.now().After(e.expiresAt) {
		e = &memoryEntry{expiresAt: t.now().Add(t.window)}
		t.entries[identityID] = e
	}
	e.count++
	return e.count, nil
}

func (t *MemoryTracker) Reset(_ context.Context, identityID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, identityID)
	return nil
}

func (t *MemoryTracker) Locked(_ context.Context, identityID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entries[identityID]
	if e == nil || t.now().After(e.expiresAt) {
		return false, nil
	}
	return e.count >= t.threshold, nil
}
