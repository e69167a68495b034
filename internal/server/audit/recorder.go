// Package audit records authentication events. Recording is best effort: a
// failed write is logged and counted, never returned, so it cannot change the
// outcome of the operation being audited.
package audit

import (
	"context"

	"github.com/dmitrijs2005/windbreaker/internal/dbx"
	"github.com/dmitrijs2005/windbreaker/internal/logging"
	"github.com/dmitrijs2005/windbreaker/internal/server/metrics"
	"github.com/dmitrijs2005/windbreaker/internal/server/models"
	"github.com/dmitrijs2005/windbreaker/internal/server/repositories/repomanager"
)

type Recorder struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	metrics     *metrics.Metrics
}

// NewRecorder constructs a Recorder. m may be nil.
func NewRecorder(rm repomanager.RepositoryManager, logger logging.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{
		repomanager: rm,
		logger:      logger.With("module", "audit"),
		metrics:     m,
	}
}

// Record appends an entry through db, which is normally the connection the
// audited operation already holds.
func (r *Recorder) Record(ctx context.Context, db dbx.DBTX, email string, event models.AuditEvent, ip string) {
	if !event.Valid() {
		r.logger.Error(ctx, "refusing unknown audit event", "event", string(event))
		r.metrics.AuditWriteFailed()
		return
	}

	entry := &models.AuditEntry{Email: email, Event: event, IPAddress: ip}
	if _, err := r.repomanager.AuditLog(db).Create(ctx, entry); err != nil {
		r.logger.Error(ctx, "audit write failed",
			"event", string(event), "email", email, "error", err)
		r.metrics.AuditWriteFailed()
	}
}

// Recent lists up to limit entries, newest first. An empty email lists all.
func (r *Recorder) Recent(ctx context.Context, db dbx.DBTX, email string, limit int) ([]*models.AuditEntry, error) {
	return r.repomanager.AuditLog(db).List(ctx, email, limit)
}
