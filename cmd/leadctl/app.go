package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/estatecrm/internal/config"
	"github.com/JonMunkholm/estatecrm/internal/core"
	"github.com/JonMunkholm/estatecrm/internal/database"
	"github.com/JonMunkholm/estatecrm/internal/lock"
	"github.com/JonMunkholm/estatecrm/internal/logging"
)

// loadConfig reads the environment and points the default logger at stderr,
// keeping stdout for command output.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
	return cfg, nil
}

// withService opens the database and tenant lock, runs fn, and releases
// both.
func withService(ctx context.Context, fn func(*core.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	locker, closeLocker, err := lock.New(cfg.Lock)
	if err != nil {
		return err
	}
	defer closeLocker()

	store := database.NewStore(pool)
	return fn(core.NewService(store, store, locker, core.OptionsFromConfig(cfg)))
}

// parseTenant validates the --tenant flag.
func parseTenant(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", withCode(exitUsage, fmt.Errorf("invalid --tenant: %w", err))
	}
	return id.String(), nil
}

// classify maps a service error to an exit code: request problems are
// validation failures, everything else is a runtime failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if core.IsClientError(err) {
		return withCode(exitValidation, fmt.Errorf("%w (%s)", err, core.MapError(err).Code))
	}
	return err
}
