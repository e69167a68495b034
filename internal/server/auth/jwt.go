// Package auth issues and verifies the signed, time-bound session tokens that
// prove identity on every request after login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/windbreaker/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the subject (account email) plus the registered time window.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies tokens with a process-wide HMAC secret. It is
// immutable after construction and safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer for the given HMAC algorithm name ("HS256",
// "HS384" or "HS512"). ttl is the default lifetime used by IssueDefault.
func NewTokenIssuer(secret []byte, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty token secret")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenIssuer{secret: key, method: method, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *i
	c.now = now
	return &c
}

// TTL is the default token lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for subject valid for ttl from now.
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	issuedAt := i.now()

	token := jwt.NewWithClaims(i.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IssueDefault signs a token for subject with the configured lifetime.
func (i *TokenIssuer) IssueDefault(subject string) (string, error) {
	return i.Issue(subject, i.ttl)
}

// Verify returns the subject of a valid token. Every failure (malformed
// encoding, wrong signature or algorithm, missing subject, expiry) is reported
// as common.ErrInvalidToken and nothing finer.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
