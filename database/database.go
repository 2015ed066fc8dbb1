package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/behavio/config"
	"github.com/lshigami/behavio/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDatabase opens the configured database. Postgres is the production
// driver; sqlite is for local runs and tests.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case DriverSQLite:
		db, err = OpenSQLite(cfg.Database.Name, gormCfg)
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Port, cfg.Database.SSLMode)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to connect to database")
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Database.Driver == DriverSQLite {
		// A single connection keeps an in-memory database alive and serializes writers.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info().Str("driver", cfg.Database.Driver).Str("name", cfg.Database.Name).Msg("Database connection established")
	return db, nil
}

// OpenSQLite opens a pure-Go sqlite database; ":memory:" gives a private
// in-memory database.
func OpenSQLite(name string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	}
	if name == "" {
		name = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(name), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Grade{},
		&model.Behaviour{},
		&model.Question{},
		&model.BehaviourLink{},
		&model.Test{},
		&model.TestQuestion{},
		&model.TestAttempt{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
