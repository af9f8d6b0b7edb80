package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/entities"
)

var defaultProfile = entities.FoundationProfile{
	NameEn: "Hayat Foundation",
	NameAr: "مؤسسة حياة",
}

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// NewDatabase opens the configured database, migrates every entity and seeds
// the foundation profile singleton.
func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log.Logger, cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(entities.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db, Driver: cfg.Driver}

	if err := database.seedProfile(); err != nil {
		return nil, fmt.Errorf("failed to seed foundation profile: %w", err)
	}

	log.Info().Str("driver", string(cfg.Driver)).Msg("Database initialized")

	return database, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		if cfg.URL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(cfg.URL), nil
	case config.DatabaseDriverSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN enables foreign keys (needed for ON DELETE actions) and a busy
// timeout so concurrent writers wait instead of failing.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) seedProfile() error {
	var count int64
	if err := d.DB.Model(&entities.FoundationProfile{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	profile := defaultProfile
	if err := d.DB.Create(&profile).Error; err != nil {
		return err
	}
	log.Info().Msg("Created default foundation profile")
	return nil
}

// gormWriter forwards GORM's log lines to zerolog.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Info().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger(l zerolog.Logger, level string) logger.Interface {
	return logger.New(gormWriter{logger: l}, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent", "off", "disabled":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}
