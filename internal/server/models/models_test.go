package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditEvent_Valid(t *testing.T) {
	assert.True(t, AuditEventLoginFailed.Valid())
	assert.True(t, AuditEventLoginSuccess.Valid())
	assert.True(t, AuditEventPasswordReset.Valid())
	assert.False(t, AuditEvent("registered").Valid())
	assert.False(t, AuditEvent("").Valid())
}

func TestAccount_IdentityOmitsHash(t *testing.T) {
	a := &Account{ID: 1, Email: "ana@x.com", DisplayName: "Ana", PasswordHash: "$argon2id$..."}

	assert.Equal(t, &Identity{Email: "ana@x.com", DisplayName: "Ana"}, a.Identity())
}
