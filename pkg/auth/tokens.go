// Package auth issues and verifies the HS256 bearer tokens handed out at login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abgdnv/storefront/pkg/web"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const roleClaim = "role"

var ErrMissingSubject = errors.New("token has no subject")

// Tokens signs and verifies tokens with a shared secret.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a Tokens instance. now may be nil.
func NewTokens(secret, issuer string, ttl time.Duration, now func() time.Time) *Tokens {
	if now == nil {
		now = time.Now
	}
	return &Tokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    now,
	}
}

// Issue returns a signed token for subject carrying role.
func (t *Tokens) Issue(subject, role string) (string, error) {
	issuedAt := t.now()
	token, err := jwt.NewBuilder().
		Subject(subject).
		Issuer(t.issuer).
		IssuedAt(issuedAt).
		Expiration(issuedAt.Add(t.ttl)).
		Claim(roleClaim, role).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), t.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// Verify checks signature, issuer and expiry of tokenString and returns its caller.
func (t *Tokens) Verify(_ context.Context, tokenString string) (web.Principal, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), t.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(t.issuer),
		jwt.WithClock(jwt.ClockFunc(t.now)),
	)
	if err != nil {
		return web.Principal{}, fmt.Errorf("failed to verify token: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return web.Principal{}, ErrMissingSubject
	}
	var role string
	// the role claim is optional
	_ = token.Get(roleClaim, &role)

	return web.Principal{Subject: subject, Role: role}, nil
}
