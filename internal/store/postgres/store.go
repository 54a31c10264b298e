// Package postgres is the production credential store. Users, their
// persisted claims and their roles live in postgres; lockout counters
// are delegated to a lockout.Tracker.
package postgres

import (
	"context"
	"database/sql"

	"github.com/joaop25/NerdStore/internal/db"
	"github.com/joaop25/NerdStore/internal/identity"
	"github.com/joaop25/NerdStore/internal/identity/lockout"

	"github.com/google/uuid"
)

type Store struct {
	db       *db.DB
	lockouts lockout.Tracker
}

func NewStore(db *db.DB, lockouts lockout.Tracker) *Store {
	return &Store{db: db, lockouts: lockouts}
}

func (s *Store) CreateIdentity(
	ctx context.Context,
	email string,
	password string,
) (*identity.Identity, error) {

	// 1. Reject duplicate emails up front.
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)
		)
	`, email).Scan(&exists)

	if err != nil {
		return nil, err
	}

	if exists {
		return nil, identity.ErrEmailTaken
	}

	// 2. Hash password (policy check included).
	hash, version, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	// 3. Insert user. Email confirmation is bypassed at registration, so
	// the flag is written as true.
	var userID uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, email_confirmed, password_hash, hash_version)
		VALUES ($1, true, $2, $3)
		RETURNING id
	`, email, hash, version).Scan(&userID)

	if err != nil {
		return nil, err
	}

	return &identity.Identity{
		ID:             userID.String(),
		Email:          email,
		EmailConfirmed: true,
	}, nil
}

func (s *Store) VerifyPassword(
	ctx context.Context,
	email string,
	password string,
) (*identity.Identity, error) {

	var (
		userID         uuid.UUID
		storedEmail    string
		emailConfirmed bool
		passwordHash   string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, email_confirmed, password_hash
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID, &storedEmail, &emailConfirmed, &passwordHash)

	if err == sql.ErrNoRows {
		// hide whether the account exists
		return nil, identity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	// Lockout wins over password correctness: a locked account stays
	// locked even when the submitted password is right.
	locked, err := s.lockouts.Locked(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, identity.ErrLockedOut
	}

	if err := verifyPassword(passwordHash, password); err != nil {
		if _, err := s.lockouts.RecordFailure(ctx, userID.String()); err != nil {
			return nil, err
		}
		// The failure that crosses the threshold already reports the
		// lockout, matching the store's sign-in semantics.
		locked, err := s.lockouts.Locked(ctx, userID.String())
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, identity.ErrLockedOut
		}
		return nil, identity.ErrInvalidCredentials
	}

	if err := s.lockouts.Reset(ctx, userID.String()); err != nil {
		return nil, err
	}

	return &identity.Identity{
		ID:             userID.String(),
		Email:          storedEmail,
		EmailConfirmed: emailConfirmed,
	}, nil
}

func (s *Store) FindByEmail(
	ctx context.Context,
	email string,
) (*identity.Identity, error) {

	var (
		userID         uuid.UUID
		storedEmail    string
		emailConfirmed bool
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, email_confirmed
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID, &storedEmail, &emailConfirmed)

	if err == sql.ErrNoRows {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &identity.Identity{
		ID:             userID.String(),
		Email:          storedEmail,
		EmailConfirmed: emailConfirmed,
	}, nil
}

func (s *Store) GetClaims(
	ctx context.Context,
	identityID string,
) ([]identity.Claim, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT claim_type, claim_value
		FROM user_claims
		WHERE user_id = $1
		ORDER BY id
	`, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []identity.Claim
	for rows.Next() {
		var c identity.Claim
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}

func (s *Store) GetRoles(
	ctx context.Context,
	identityID string,
) ([]string, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
		ORDER BY id
	`, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}
