package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/windbreaker/internal/logging"
	"github.com/dmitrijs2005/windbreaker/internal/server"
	"github.com/dmitrijs2005/windbreaker/internal/server/config"
)

// StoreBackend opens the store described by the tool configuration.
type StoreBackend struct{}

func (StoreBackend) OpenService(ctx context.Context) (Service, func() error, error) {
	cfg, err := config.LoadToolConfig()
	if err != nil {
		return nil, nil, err
	}

	db, rm, err := server.OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)
	svc, err := server.NewAuthService(db, rm, cfg, logger, nil)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return svc, db.Close, nil
}

// Migrate relies on OpenDatabase applying migrations on open.
func (StoreBackend) Migrate(ctx context.Context) error {
	cfg, err := config.LoadToolConfig()
	if err != nil {
		return err
	}
	db, _, err := server.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	return db.Close()
}
