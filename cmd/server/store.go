package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"contactform/internal/config"
	"contactform/internal/model"
	"contactform/internal/repository"
	"contactform/pkg/db"
)

// submissionStore is what the commands need from either relational backend.
type submissionStore interface {
	ExistsByIdentity(ctx context.Context, id model.Identity) (bool, error)
	CreateSubmission(ctx context.Context, s *model.Submission) (int64, error)
	Ping(ctx context.Context) error
}

// initStore prepares the schema of the configured backend.
func initStore(cfg *config.Config, logger *zap.Logger) error {
	switch cfg.Storage.Driver {
	case "postgres":
		return db.Migrate(cfg.DB.DSN(), logger)
	default:
		created, err := db.InitSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		if created {
			logger.Info("Created sqlite store", zap.String("path", cfg.Storage.SQLitePath))
		} else {
			logger.Info("Sqlite store already exists, skipping init", zap.String("path", cfg.Storage.SQLitePath))
		}
		return nil
	}
}

// openStore runs the initializer and opens the repository. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (submissionStore, func(), error) {
	if err := initStore(cfg, logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := db.NewConnection(ctx, cfg.DB, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresSubmissionRepository(pool), pool.Close, nil
	default:
		gdb, err := db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := db.CloseSQLite(gdb); err != nil {
				logger.Warn("Failed to close sqlite store", zap.Error(err))
			}
		}
		return repository.NewSQLiteSubmissionRepository(gdb), closeFn, nil
	}
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, newLogger(cfg), nil
}
