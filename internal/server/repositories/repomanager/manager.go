package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/windbreaker/internal/dbx"
	"github.com/dmitrijs2005/windbreaker/internal/server/repositories/auditlog"
	"github.com/dmitrijs2005/windbreaker/internal/server/repositories/users"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// RepositoryManager vends repositories bound to whatever handle the caller
// holds (pool, dedicated connection or transaction) and owns schema migration.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
}

// New returns the manager for driver.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	case DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
