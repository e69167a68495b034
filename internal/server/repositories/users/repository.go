// Package users is the credential store: the only owner of account rows.
// Email uniqueness is enforced by the database's unique constraint, so two
// concurrent Create calls for one email can never both succeed.
package users

import (
	"context"

	"github.com/dmitrijs2005/windbreaker/internal/server/models"
)

type Repository interface {
	// Create inserts a new account and fills in its ID. A second account with
	// the same email fails with common.ErrorDuplicateEmail.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	// FindByEmail matches email exactly (case-sensitive) and returns
	// common.ErrorNotFound when nothing matches.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// UpdatePassword replaces the stored hash; common.ErrorNotFound if no such account.
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}
