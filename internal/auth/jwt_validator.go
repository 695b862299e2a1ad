package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenValidator checks an admin bearer token after its signature has been verified.
// Every accepted token names a subject (recorded as changed_by on price logs) and
// expires; MaxLifetime additionally bounds how far exp may lie past iat.
type TokenValidator struct {
	Issuer      string
	Audience    string
	ClockSkew   time.Duration
	Algorithm   jwa.SignatureAlgorithm
	MaxLifetime time.Duration
}

// Validate ensures the supplied token satisfies issuer, audience, expiry, subject,
// lifetime and algorithm requirements.
func (v TokenValidator) Validate(tok jwt.Token, algorithm jwa.SignatureAlgorithm, now time.Time) error {
	if tok == nil {
		return errors.New("auth: token is nil")
	}
	if algorithm == "" {
		return errors.New("auth: token missing algorithm")
	}
	if v.Algorithm != "" && algorithm != v.Algorithm {
		return fmt.Errorf("auth: unexpected token algorithm %s", algorithm)
	}

	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
		jwt.WithRequiredClaim(jwt.SubjectKey),
	}
	if v.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(v.ClockSkew))
	}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		options = append(options, jwt.WithAudience(v.Audience))
	}
	if err := jwt.Validate(tok, options...); err != nil {
		return err
	}

	if strings.TrimSpace(tok.Subject()) == "" {
		return errors.New("auth: token missing subject")
	}
	if v.MaxLifetime > 0 {
		issued := tok.IssuedAt()
		if issued.IsZero() {
			issued = now
		}
		if lifetime := tok.Expiration().Sub(issued); lifetime > v.MaxLifetime+v.ClockSkew {
			return fmt.Errorf("auth: token lifetime %s exceeds %s", lifetime, v.MaxLifetime)
		}
	}
	return nil
}
