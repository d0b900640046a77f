// Package lockout implements ports.LoginLockoutStore.
package lockout

import (
	"context"
	"sync"
	"time"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
)

const defaultCooldown = 15 * time.Minute

type entry struct {
	failures    int
	lockedUntil time.Time
}

// MemoryStore is an in-process lockout store for single-instance runs and tests.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]*entry
	max      int
	cooldown time.Duration
	now      func() time.Time
}

var _ ports.LoginLockoutStore = (*MemoryStore)(nil)

// NewMemoryStore locks an email for cooldown after maxAttempts consecutive
// failures. maxAttempts 0 disables the lockout.
func NewMemoryStore(maxAttempts int, cooldown time.Duration) *MemoryStore {
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &MemoryStore{data: map[string]*entry{}, max: maxAttempts, cooldown: cooldown, now: time.Now}
}

func (s *MemoryStore) IsLocked(_ context.Context, email string) (bool, time.Duration, error) {
	if s.max <= 0 {
		return false, 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[email]
	if !ok {
		return false, 0, nil
	}
	if left := e.lockedUntil.Sub(s.now()); left > 0 {
		return true, left, nil
	}
	return false, 0, nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, email string) error {
	if s.max <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.data[email]
	if e == nil {
		e = &entry{}
		s.data[email] = e
	}
	now := s.now()
	// An expired cooldown starts a fresh count.
	if !e.lockedUntil.IsZero() && now.After(e.lockedUntil) {
		e.failures = 0
		e.lockedUntil = time.Time{}
	}
	e.failures++
	if e.failures >= s.max {
		e.lockedUntil = now.Add(s.cooldown)
	}
	return nil
}

func (s *MemoryStore) RecordSuccess(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.data, email)
	s.mu.Unlock()
	return nil
}
