package database

import (
	"fmt"

	"mediation-api/core/logger"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens a file-backed SQLite database. Every transaction starts
// with BEGIN IMMEDIATE, so write transactions are serialized by the engine.
func OpenSQLite(path string) (Database, error) {
	logger.Info("Initializing database...", "driver", DialectSQLite.Name, "path", path)

	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	sqlxDB, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		logger.Error("Failed to open sqlite database", "error", err, "path", path)
		return Database{}, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return wrap(sqlxDB, DialectSQLite), nil
}
