package main

import (
	"log/slog"
	"os"

	"github.com/dogwatch-dev/dogwatch/db"
	"github.com/dogwatch-dev/dogwatch/internal/config"
	"github.com/dogwatch-dev/dogwatch/internal/logging"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

const serviceName = "dogwatch"

func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.Setup(serviceName, cfg.App.Version, cfg.App.LogFormat, logging.ParseLevel(cfg.App.LogLevel), os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// openDatabase connects and brings the schema up to date.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	conn, err := db.ConnectDatabase(cfg.Database.URL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}

	if err := db.MigrateDatabase(conn); err != nil {
		return nil, oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	return conn, nil
}
