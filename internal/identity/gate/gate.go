// Package gate decides whether a registration or login request yields a
// usable identity. It performs a single synchronous verification per
// call; lockout policy and failure counters live in the store.
package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/joaop25/NerdStore/internal/identity"
)

// ErrRegistrationRejected collapses every store-level constraint
// violation (duplicate email, weak password) into one undifferentiated
// rejection so no sub-cause leaks to the client.
var ErrRegistrationRejected = errors.New("gate: registration rejected")

// Login failures keep the store's three-way split.
var (
	ErrInvalidCredentials = identity.ErrInvalidCredentials
	ErrLockedOut          = identity.ErrLockedOut
)

type Gate struct {
	store identity.Store
}

func New(store identity.Store) *Gate {
	return &Gate{store: store}
}

// Register creates a new identity with email as both login handle and
// address. The email-confirmation flag is set true immediately; the
// caller may treat the fresh identity as authenticated.
func (g *Gate) Register(ctx context.Context, email, password string) (*identity.Identity, error) {
	id, err := g.store.CreateIdentity(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) || errors.Is(err, identity.ErrWeakPassword) {
			return nil, ErrRegistrationRejected
		}
		return nil, fmt.Errorf("gate: create identity: %w", err)
	}
	return id, nil
}

// Login verifies the password for the identity matching email. Outcomes
// are mutually exclusive: a verified identity, ErrLockedOut, or
// ErrInvalidCredentials.
func (g *Gate) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	id, err := g.store.VerifyPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrLockedOut) {
			return nil, err
		}
		return nil, fmt.Errorf("gate: verify password: %w", err)
	}
	return id, nil
}
