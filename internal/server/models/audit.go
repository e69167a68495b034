package models

import "time"

// AuditEvent is the fixed vocabulary of authentication events.
type AuditEvent string

const (
	AuditEventLoginFailed   AuditEvent = "login_failed"
	AuditEventLoginSuccess  AuditEvent = "login_success"
	AuditEventPasswordReset AuditEvent = "password_reset"
)

// Valid reports whether e belongs to the vocabulary.
func (e AuditEvent) Valid() bool {
	switch e {
	case AuditEventLoginFailed, AuditEventLoginSuccess, AuditEventPasswordReset:
		return true
	}
	return false
}

// AuditEntry is one append-only audit record. Email may reference an account
// that does not exist (failed login with an unknown email).
type AuditEntry struct {
	ID        int64
	Email     string
	Event     AuditEvent
	IPAddress string
	Timestamp time.Time
}
