// Package auditlog persists authentication audit entries. The table is
// append-only: nothing here updates or deletes rows.
package auditlog

import (
	"context"

	"github.com/dmitrijs2005/windbreaker/internal/server/models"
)

type Repository interface {
	// Create appends entry; the store assigns ID and Timestamp.
	Create(ctx context.Context, entry *models.AuditEntry) (*models.AuditEntry, error)
	// List returns up to limit most recent entries, newest first. An empty
	// email lists entries for every subject.
	List(ctx context.Context, email string, limit int) ([]*models.AuditEntry, error)
}
