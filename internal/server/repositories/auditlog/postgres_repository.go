package auditlog

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/windbreaker/internal/dbx"
	"github.com/dmitrijs2005/windbreaker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.AuditEntry) (*models.AuditEntry, error) {

	query :=
		`INSERT INTO audit_logs (email, event, ip_address)
         VALUES ($1, $2, $3)
		 RETURNING id, timestamp
		 `

	err := r.db.QueryRowContext(ctx, query, entry.Email, string(entry.Event), entry.IPAddress).
		Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) List(ctx context.Context, email string, limit int) ([]*models.AuditEntry, error) {

	query :=
		`SELECT id, email, event, ip_address, timestamp FROM audit_logs
		 WHERE ($1 = '' OR email = $1)
		 ORDER BY id DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, email, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.AuditEntry, 0)
	for rows.Next() {
		e := &models.AuditEntry{}
		var event string
		if err := rows.Scan(&e.ID, &e.Email, &event, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Event = models.AuditEvent(event)
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
