package server

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/windbreaker/internal/cryptox"
	"github.com/dmitrijs2005/windbreaker/internal/logging"
	"github.com/dmitrijs2005/windbreaker/internal/server/audit"
	"github.com/dmitrijs2005/windbreaker/internal/server/auth"
	"github.com/dmitrijs2005/windbreaker/internal/server/config"
	"github.com/dmitrijs2005/windbreaker/internal/server/metrics"
	"github.com/dmitrijs2005/windbreaker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/windbreaker/internal/server/services"
)

// sqlitePragmas make concurrent writers wait for the lock instead of failing
// with SQLITE_BUSY.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// OpenDatabase opens the configured database, checks connectivity and
// applies pending migrations. Shared by the server and the operator CLI.
func OpenDatabase(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}

	dsn := c.DatabaseDSN
	if c.DatabaseDriver == repomanager.DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(c.DatabaseDriver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, rm, nil
}

// sqliteDSN appends the default pragmas unless the DSN already carries
// query parameters.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?" + sqlitePragmas
}

// NewAuthService builds the hasher, the token issuer and the audit recorder
// from c and wires them into a services.AuthService. m may be nil.
func NewAuthService(db *sql.DB, rm repomanager.RepositoryManager, c *config.Config, logger logging.Logger, m *metrics.Metrics) (*services.AuthService, error) {
	issuer, err := auth.NewTokenIssuer([]byte(c.SecretKey), c.SigningAlgorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	recorder := audit.NewRecorder(rm, logger, m)

	return services.NewAuthService(db, rm, cryptox.NewArgon2idHasher(), issuer, recorder, m, logger)
}
