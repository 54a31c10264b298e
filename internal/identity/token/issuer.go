// Package token turns an authenticated identity into a signed JWT plus
// the client-facing response envelope.
package token

import (
	"context"
	"strconv"
	"time"

	"github.com/joaop25/NerdStore/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config carries the signing settings, loaded once and immutable.
type Config struct {
	Secret      []byte // raw HMAC-SHA256 key material
	Issuer      string
	Audience    string
	ExpiryHours int
}

// Response is the envelope returned to the client on successful
// authentication.
type Response struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"` // validity in seconds
	User        UserToken `json:"user_token"`
}

// UserToken echoes the identity and the exact claim list embedded in
// the access token.
type UserToken struct {
	ID     string           `json:"id"`
	Email  string           `json:"email"`
	Claims []identity.Claim `json:"claims"`
}

// Issuer assembles the claim set for an identity and signs it. Tokens
// are never cached or stored server-side; every call re-reads claims
// and re-signs.
type Issuer struct {
	store identity.Store
	cfg   Config

	// overridable for tests
	now        func() time.Time
	newTokenID func() string
}

func NewIssuer(store identity.Store, cfg Config) *Issuer {
	return &Issuer{
		store:      store,
		cfg:        cfg,
		now:        time.Now,
		newTokenID: uuid.NewString,
	}
}

// Issue builds and signs a token for an already-authenticated identity.
// Claim order is fixed: persisted claims, then sub, email, jti, nbf,
// iat, then one "role" claim per role in store order. Any failure
// aborts the whole call; no partial token is ever produced.
func (i *Issuer) Issue(ctx context.Context, id *identity.Identity) (*Response, error) {
	claims, err := i.store.GetClaims(ctx, id.ID)
	if err != nil {
		return nil, &StoreReadError{Err: err}
	}

	roles, err := i.store.GetRoles(ctx, id.ID)
	if err != nil {
		return nil, &StoreReadError{Err: err}
	}

	now := i.now().UTC()
	issuedAt := unixSeconds(now)
	expiresAt := unixSeconds(now.Add(time.Duration(i.cfg.ExpiryHours) * time.Hour))

	claims = append(claims,
		identity.Claim{Type: "sub", Value: id.ID},
		identity.Claim{Type: "email", Value: id.Email},
		identity.Claim{Type: "jti", Value: i.newTokenID()},
		identity.Claim{Type: "nbf", Value: formatUnix(issuedAt)},
		identity.Claim{Type: "iat", Value: formatUnix(issuedAt)},
	)

	for _, role := range roles {
		claims = append(claims, identity.Claim{Type: identity.RoleClaimType, Value: role})
	}

	payload := buildPayload(claims)
	payload["iss"] = i.cfg.Issuer
	payload["aud"] = i.cfg.Audience
	payload["exp"] = expiresAt

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).
		SignedString(i.cfg.Secret)
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	return &Response{
		AccessToken: signed,
		ExpiresIn:   int64(i.cfg.ExpiryHours) * 3600,
		User: UserToken{
			ID:     id.ID,
			Email:  id.Email,
			Claims: claims,
		},
	}, nil
}

// buildPayload folds the ordered claim list into a JSON object. A type
// that occurs more than once (several "role" claims, say) becomes an
// array, which is how duplicate claims survive a single-keyed payload.
func buildPayload(claims []identity.Claim) jwt.MapClaims {
	payload := jwt.MapClaims{}

	for _, c := range claims {
		var value any = c.Value
		// nbf and iat are numeric-date claims; keep them as integers so
		// verifiers can do time validation.
		if c.Type == "nbf" || c.Type == "iat" {
			value = parseUnix(c.Value)
		}

		existing, ok := payload[c.Type]
		if !ok {
			payload[c.Type] = value
			continue
		}
		if list, isList := existing.([]any); isList {
			payload[c.Type] = append(list, value)
		} else {
			payload[c.Type] = []any{existing, value}
		}
	}

	return payload
}

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// unixSeconds is the whole-second distance from the Unix epoch, rounded
// to the nearest second. Computed without float math so current-era
// timestamps do not lose precision.
func unixSeconds(t time.Time) int64 {
	secs := t.Sub(epoch) / time.Second
	if t.Sub(epoch)%time.Second >= 500*time.Millisecond {
		secs++
	}
	return int64(secs)
}

func formatUnix(seconds int64) string {
	return strconv.FormatInt(seconds, 10)
}

func parseUnix(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
