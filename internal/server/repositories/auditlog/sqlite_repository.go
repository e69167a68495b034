package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/windbreaker/internal/dbx"
	"github.com/dmitrijs2005/windbreaker/internal/server/models"
)

// sqliteTimeLayout matches strftime('%Y-%m-%d %H:%M:%f') in UTC; the
// fractional part is accepted by time.Parse without being in the layout.
const sqliteTimeLayout = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, entry *models.AuditEntry) (*models.AuditEntry, error) {
	var ts string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO audit_logs (email, event, ip_address) VALUES (?, ?, ?) RETURNING id, timestamp`,
		entry.Email, string(entry.Event), entry.IPAddress).Scan(&entry.ID, &ts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	entry.Timestamp, err = parseTimestamp(ts)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *SQLiteRepository) List(ctx context.Context, email string, limit int) ([]*models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, event, ip_address, timestamp FROM audit_logs
		WHERE (? = '' OR email = ?)
		ORDER BY id DESC
		LIMIT ?
	`, email, email, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.AuditEntry, 0)
	for rows.Next() {
		e := &models.AuditEntry{}
		var event, ts string
		if err := rows.Scan(&e.ID, &e.Email, &event, &e.IPAddress, &ts); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Event = models.AuditEvent(event)
		if e.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(sqliteTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad audit timestamp %q: %w", s, err)
	}
	return t, nil
}
