package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/windbreaker/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func newIssuer(t *testing.T, secret string) *TokenIssuer {
	t.Helper()
	i, err := NewTokenIssuer([]byte(secret), "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	return i
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	i := newIssuer(t, "super-secret")

	tok, err := i.Issue("ana@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	subject, err := i.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if subject != "ana@x.com" {
		t.Fatalf("subject mismatch: got %q", subject)
	}
}

func TestIssue_ClaimsWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	i := newIssuer(t, "k").WithClock(func() time.Time { return now })

	tok, err := i.IssueDefault("ana@x.com")
	if err != nil {
		t.Fatalf("IssueDefault error: %v", err)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if !claims.IssuedAt.Time.Equal(now) {
		t.Fatalf("iat = %v, want %v", claims.IssuedAt.Time, now)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("exp = %v, want %v", claims.ExpiresAt.Time, now.Add(30*time.Minute))
	}
	if claims.ID == "" {
		t.Fatal("token id must be set")
	}
}

func TestVerify_ZeroTTL(t *testing.T) {
	t.Parallel()

	i := newIssuer(t, "secret")

	tok, err := i.Issue("u1", 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := i.Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	i := newIssuer(t, "secret").WithClock(func() time.Time { return now })

	tok, err := i.Issue("u1", time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := i.Verify(tok); err != nil {
		t.Fatalf("token must be valid inside its window: %v", err)
	}

	later := i.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	if _, err := later.Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newIssuer(t, "right-secret").Issue("u2", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := newIssuer(t, "wrong-secret").Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	i := newIssuer(t, "secret")
	tok, err := i.Issue("u3", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other, err := i.Issue("someone-else", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	if _, err := i.Verify(forged); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	i := newIssuer(t, "k")
	for _, s := range []string{"", "not.a.jwt", "abc"} {
		if _, err := i.Verify(s); err != common.ErrInvalidToken {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	i := newIssuer(t, "secret")
	tok, err := i.Issue("", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := i.Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u4"}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	i := newIssuer(t, "secret")
	if _, err := i.Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithm(t *testing.T) {
	t.Parallel()

	secret := "secret"
	hs512, err := NewTokenIssuer([]byte(secret), "HS512", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	tok, err := hs512.IssueDefault("u5")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := newIssuer(t, secret).Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("HS256 issuer must reject HS512 token, got %v", err)
	}
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenIssuer(nil, "HS256", time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
	for _, alg := range []string{"RS256", "none", "ES256", ""} {
		if _, err := NewTokenIssuer([]byte("k"), alg, time.Minute); err == nil {
			t.Fatalf("expected error for algorithm %q", alg)
		}
	}
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		if _, err := NewTokenIssuer([]byte("k"), alg, time.Minute); err != nil {
			t.Fatalf("algorithm %q must be accepted: %v", alg, err)
		}
	}
}

func TestNewTokenIssuer_CopiesSecret(t *testing.T) {
	t.Parallel()

	secret := []byte("mutable")
	i, err := NewTokenIssuer(secret, "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	tok, err := i.IssueDefault("u6")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	secret[0] = 'X'

	if _, err := i.Verify(tok); err != nil {
		t.Fatalf("issuer must not share the caller's secret slice: %v", err)
	}
}
