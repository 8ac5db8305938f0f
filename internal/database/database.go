package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pageza/recipe-box/backend/config"
	"github.com/pageza/recipe-box/backend/internal/logger"
)

// New opens the SQL database selected by cfg.StoreDriver.
func New(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		log.Infow("Opening SQLite database", "path", cfg.SQLitePath)
		dialector = sqlite.Open(cfg.SQLitePath)
	case config.StorePostgres:
		// never log the password
		log.Infow("Connecting to database", "host", cfg.DBHost, "port", cfg.DBPort, "user", cfg.DBUser, "db", cfg.DBName)
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("store driver %q is not a SQL database", cfg.StoreDriver)
	}

	logLevel := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Infow("Successfully connected to database", "driver", cfg.StoreDriver)
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
