package identity

import (
	"context"
	"errors"
)

var (
	// ErrEmailTaken is returned by CreateIdentity when the email is
	// already registered.
	ErrEmailTaken = errors.New("identity: email already registered")

	// ErrWeakPassword is returned by CreateIdentity when the password
	// fails the store's complexity policy.
	ErrWeakPassword = errors.New("identity: password does not meet policy")

	// ErrInvalidCredentials covers wrong password, unknown email and any
	// other verification failure that is not a lockout. Deliberately
	// undifferentiated so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrLockedOut is returned while the account is inside a lockout
	// window, regardless of whether the submitted password is correct.
	ErrLockedOut = errors.New("identity: account locked out")

	// ErrNotFound is returned by FindByEmail for unknown addresses.
	ErrNotFound = errors.New("identity: not found")
)

// Store is the capability interface over the credential store. The core
// only ever talks to this interface; production uses the postgres
// implementation, tests use an in-memory fake.
type Store interface {
	// CreateIdentity registers a new identity with the email as both
	// login handle and address. Fails with ErrEmailTaken or
	// ErrWeakPassword on constraint violations.
	CreateIdentity(ctx context.Context, email, password string) (*Identity, error)

	// VerifyPassword checks password against the stored hash for the
	// identity matching email. A failed attempt counts toward the
	// store's lockout bookkeeping; a successful one resets it.
	VerifyPassword(ctx context.Context, email, password string) (*Identity, error)

	// FindByEmail looks up an identity by its login handle.
	FindByEmail(ctx context.Context, email string) (*Identity, error)

	// GetClaims returns the persisted claims for an identity, in
	// insertion order.
	GetClaims(ctx context.Context, identityID string) ([]Claim, error)

	// GetRoles returns the role names for an identity, in insertion
	// order.
	GetRoles(ctx context.Context, identityID string) ([]string, error)
}
