// Package identitytest provides an in-memory identity.Store so gate,
// issuer and handler tests run without postgres or redis.
package identitytest

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/joaop25/NerdStore/internal/identity"
	"github.com/joaop25/NerdStore/internal/identity/lockout"
)

type user struct {
	identity identity.Identity
	password string
	claims   []identity.Claim
	roles    []string
}

// Store is an in-memory identity.Store. Passwords are kept in plain
// text; this is a test double, not a credential store.
type Store struct {
	mu       sync.Mutex
	seq      int
	byEmail  map[string]*user
	lockouts lockout.Tracker

	// Error overrides for failure-path tests. When set, the matching
	// method returns the error unconditionally.
	ClaimsErr error
	RolesErr  error
}

func NewStore() *Store {
	return &Store{
		byEmail:  make(map[string]*user),
		lockouts: lockout.NewMemoryTracker(5, 5*time.Minute),
	}
}

// NewStoreWithLockout overrides the default threshold of 5 failures in
// 5 minutes.
func NewStoreWithLockout(threshold int, window time.Duration) *Store {
	return &Store{
		byEmail:  make(map[string]*user),
		lockouts: lockout.NewMemoryTracker(threshold, window),
	}
}

func (s *Store) CreateIdentity(_ context.Context, email, password string) (*identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return nil, identity.ErrEmailTaken
	}
	if len(password) < 8 {
		return nil, identity.ErrWeakPassword
	}

	s.seq++
	u := &user{
		identity: identity.Identity{
			ID:             "user-" + strconv.Itoa(s.seq),
			Email:          email,
			EmailConfirmed: true,
		},
		password: password,
	}
	s.byEmail[email] = u

	id := u.identity
	return &id, nil
}

func (s *Store) VerifyPassword(ctx context.Context, email, password string) (*identity.Identity, error) {
	s.mu.Lock()
	u, ok := s.byEmail[email]
	s.mu.Unlock()

	if !ok {
		return nil, identity.ErrInvalidCredentials
	}

	locked, err := s.lockouts.Locked(ctx, u.identity.ID)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, identity.ErrLockedOut
	}

	if u.password != password {
		if _, err := s.lockouts.RecordFailure(ctx, u.identity.ID); err != nil {
			return nil, err
		}
		locked, err := s.lockouts.Locked(ctx, u.identity.ID)
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, identity.ErrLockedOut
		}
		return nil, identity.ErrInvalidCredentials
	}

	if err := s.lockouts.Reset(ctx, u.identity.ID); err != nil {
		return nil, err
	}

	id := u.identity
	return &id, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, identity.ErrNotFound
	}
	id := u.identity
	return &id, nil
}

func (s *Store) GetClaims(_ context.Context, identityID string) ([]identity.Claim, error) {
	if s.ClaimsErr != nil {
		return nil, s.ClaimsErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findByID(identityID); u != nil {
		return append([]identity.Claim(nil), u.claims...), nil
	}
	return nil, nil
}

func (s *Store) GetRoles(_ context.Context, identityID string) ([]string, error) {
	if s.RolesErr != nil {
		return nil, s.RolesErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findByID(identityID); u != nil {
		return append([]string(nil), u.roles...), nil
	}
	return nil, nil
}

// SetClaims seeds persisted claims for an identity.
func (s *Store) SetClaims(identityID string, claims []identity.Claim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.findByID(identityID); u != nil {
		u.claims = claims
	}
}

// SetRoles seeds role memberships for an identity.
func (s *Store) SetRoles(identityID string, roles []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.findByID(identityID); u != nil {
		u.roles = roles
	}
}

func (s *Store) findByID(identityID string) *user {
	for _, u := range s.byEmail {
		if u.identity.ID == identityID {
			return u
		}
	}
	return nil
}
