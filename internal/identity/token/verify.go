package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates tokens produced by an Issuer configured with the
// same secret, issuer and audience.
type Verifier struct {
	cfg Config
}

func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify parses and validates a raw token. Only HS256 is accepted, and
// issuer and audience must match the configuration exactly. The decoded
// payload is returned for claim inspection.
//
// One second of leeway covers the issuer's nearest-second rounding: nbf
// may sit up to 500ms ahead of the wall clock on a fresh token.
func (v *Verifier) Verify(raw string) (jwt.MapClaims, error) {
	payload := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(raw, payload, func(t *jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Second),
	)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// Subject extracts the sub claim from a verified payload.
func Subject(payload jwt.MapClaims) (string, error) {
	sub, err := payload.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token: missing sub claim")
	}
	return sub, nil
}
