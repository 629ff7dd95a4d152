package database

import (
	"fmt"
	"time"

	"mediation-api/core/config"
	"mediation-api/core/constants"
	"mediation-api/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func openPostgres(cfg config.DatabaseConfig) (Database, error) {
	logger.Info("Initializing database...", "driver", DialectPostgres.Name)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = constants.DatabaseSSLMode
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)
	if cfg.StatementTimeout > 0 {
		dsn += fmt.Sprintf(" statement_timeout=%d", cfg.StatementTimeout*1000)
	}
	if cfg.IdleInTxSessionTimeout > 0 {
		dsn += fmt.Sprintf(" idle_in_transaction_session_timeout=%d", cfg.IdleInTxSessionTimeout*1000)
	}

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return Database{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	maxOpen := orDefault(cfg.MaxOpenConns, constants.DatabaseMaxOpenConns)
	maxIdle := orDefault(cfg.MaxIdleConns, constants.DatabaseMaxIdleConns)
	lifetime := orDefault(cfg.ConnMaxLifetime, constants.DatabaseConnMaxLifetime)

	sqlDB := sqlxDB.DB
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Duration(lifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return Database{}, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database initialized successfully",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
		"user", cfg.User,
		"maxOpenConns", maxOpen,
		"maxIdleConns", maxIdle,
		"connMaxLifetime", lifetime,
	)

	return wrap(sqlxDB, DialectPostgres), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
