// Package services contains server-side business logic. This file implements
// AuthService: registration, login, password reset and resolving the caller
// behind a session token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/windbreaker/internal/common"
	"github.com/dmitrijs2005/windbreaker/internal/dbx"
	"github.com/dmitrijs2005/windbreaker/internal/logging"
	"github.com/dmitrijs2005/windbreaker/internal/server/audit"
	"github.com/dmitrijs2005/windbreaker/internal/server/metrics"
	"github.com/dmitrijs2005/windbreaker/internal/server/models"
	"github.com/dmitrijs2005/windbreaker/internal/server/repositories/repomanager"
)

// dummyPassword is hashed once at construction. Logins for unknown emails
// verify against that hash so they cost the same as a wrong password.
const dummyPassword = "windbreaker-timing-equaliser"

// PasswordHasher is satisfied by *cryptox.Argon2idHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenIssuer is satisfied by *auth.TokenIssuer.
type TokenIssuer interface {
	IssueDefault(subject string) (string, error)
	Verify(token string) (string, error)
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token       string
	TokenType   string
	DisplayName string
}

// AuthService is the only component that touches the credential store, the
// hasher and the token issuer. It holds no mutable state of its own; every
// operation acquires one connection and releases it before returning.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	audit       *audit.Recorder
	metrics     *metrics.Metrics
	logger      logging.Logger
	dummyHash   string
}

// NewAuthService wires the service. m may be nil.
func NewAuthService(
	db *sql.DB,
	rm repomanager.RepositoryManager,
	hasher PasswordHasher,
	tokens TokenIssuer,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	logger logging.Logger,
) (*AuthService, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}

	return &AuthService{
		db:          db,
		repomanager: rm,
		hasher:      hasher,
		tokens:      tokens,
		audit:       recorder,
		metrics:     m,
		logger:      logger.With("module", "auth_service"),
		dummyHash:   dummyHash,
	}, nil
}

// Register creates an account. The pre-check gives the common case a clean
// answer; the store's unique constraint is what actually closes the race
// between two concurrent registrations of one email.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.Identity, error) {
	if err := validateRegistration(name, email, password); err != nil {
		s.metrics.Event(metrics.EventRegisterFailed)
		return nil, err
	}

	var created *models.Account
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Conn) error {
		repo := s.repomanager.Users(conn)

		_, err := repo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrorDuplicateEmail
		case !errors.Is(err, common.ErrorNotFound):
			return s.internal(ctx, "error looking up account", err)
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return s.internal(ctx, "error hashing password", err)
		}

		created, err = repo.Create(ctx, &models.Account{
			Email:        email,
			DisplayName:  name,
			PasswordHash: hash,
		})
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return common.ErrorDuplicateEmail
		}
		if err != nil {
			return s.internal(ctx, "error creating account", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.Event(metrics.EventRegisterFailed)
		return nil, s.settle(ctx, err)
	}

	s.metrics.Event(metrics.EventRegister)
	s.logger.Info(ctx, "account registered", "account_id", created.ID)
	return created.Identity(), nil
}

// Login checks email and password. An unknown email and a wrong password fail
// with the same common.ErrorInvalidCredentials after the same amount of work.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	var result *LoginResult
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Conn) error {
		account, err := s.repomanager.Users(conn).FindByEmail(ctx, email)
		hash := s.dummyHash
		switch {
		case err == nil:
			hash = account.PasswordHash
		case errors.Is(err, common.ErrorNotFound):
			account = nil
		default:
			return s.internal(ctx, "error looking up account", err)
		}

		ok, err := s.hasher.Verify(password, hash)
		if err != nil {
			return s.internal(ctx, "stored password hash is unreadable", err)
		}
		if account == nil || !ok {
			s.audit.Record(ctx, conn, email, models.AuditEventLoginFailed, ip)
			return common.ErrorInvalidCredentials
		}

		token, err := s.tokens.IssueDefault(account.Email)
		if err != nil {
			return s.internal(ctx, "error issuing token", err)
		}

		s.audit.Record(ctx, conn, email, models.AuditEventLoginSuccess, ip)
		result = &LoginResult{
			Token:       token,
			TokenType:   common.TokenTypeBearer,
			DisplayName: account.DisplayName,
		}
		return nil
	})
	if err != nil {
		s.metrics.Event(metrics.EventLoginFailed)
		return nil, s.settle(ctx, err)
	}

	s.metrics.Event(metrics.EventLoginSuccess)
	return result, nil
}

// ForgotPassword replaces the password of an existing account. It asks for no
// proof beyond the email and reports common.ErrorNotFound for unknown ones.
// Tokens issued before the reset stay valid until they expire.
func (s *AuthService) ForgotPassword(ctx context.Context, email, newPassword, ip string) error {
	if err := validateReset(email, newPassword); err != nil {
		s.metrics.Event(metrics.EventResetFailed)
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.metrics.Event(metrics.EventResetFailed)
		return s.internal(ctx, "error hashing password", err)
	}

	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Conn) error {
		err := dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.Users(tx)
			if _, err := repo.FindByEmail(ctx, email); err != nil {
				return err
			}
			return repo.UpdatePassword(ctx, email, hash)
		})
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		if err != nil {
			return s.internal(ctx, "error updating password", err)
		}

		s.audit.Record(ctx, conn, email, models.AuditEventPasswordReset, ip)
		return nil
	})
	if err != nil {
		s.metrics.Event(metrics.EventResetFailed)
		return s.settle(ctx, err)
	}

	s.metrics.Event(metrics.EventPasswordReset)
	return nil
}

// ResolveCurrentIdentity returns the public fields of the account named by a
// valid token. Any token problem, or a subject with no account, is
// common.ErrorUnauthenticated.
func (s *AuthService) ResolveCurrentIdentity(ctx context.Context, token string) (*models.Identity, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.Event(metrics.EventIdentityDenied)
		return nil, common.ErrorUnauthenticated
	}

	var identity *models.Identity
	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Conn) error {
		account, err := s.repomanager.Users(conn).FindByEmail(ctx, subject)
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthenticated
		}
		if err != nil {
			return s.internal(ctx, "error looking up account", err)
		}
		identity = account.Identity()
		return nil
	})
	if err != nil {
		s.metrics.Event(metrics.EventIdentityDenied)
		return nil, s.settle(ctx, err)
	}

	s.metrics.Event(metrics.EventIdentityOK)
	return identity, nil
}

// AuditTrail lists up to limit recent audit entries, newest first. An empty
// email lists every subject.
func (s *AuthService) AuditTrail(ctx context.Context, email string, limit int) ([]*models.AuditEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", common.ErrorValidation)
	}

	var entries []*models.AuditEntry
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Conn) error {
		var err error
		entries, err = s.audit.Recent(ctx, conn, email, limit)
		if err != nil {
			return s.internal(ctx, "error listing audit entries", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.settle(ctx, err)
	}
	return entries, nil
}

// internal logs err and replaces it with common.ErrorInternal so driver
// detail never reaches the caller.
func (s *AuthService) internal(ctx context.Context, msg string, err error) error {
	s.logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}

// settle passes the service's own sentinels through and turns anything else
// (such as a failure to acquire a connection) into common.ErrorInternal.
func (s *AuthService) settle(ctx context.Context, err error) error {
	for _, known := range []error{
		common.ErrorDuplicateEmail,
		common.ErrorInvalidCredentials,
		common.ErrorNotFound,
		common.ErrorUnauthenticated,
		common.ErrorInternal,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	return s.internal(ctx, "error acquiring connection", err)
}
