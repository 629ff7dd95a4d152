package database

import (
	"context"
	"database/sql"
	"fmt"

	"mediation-api/core/config"

	"github.com/jmoiron/sqlx"
)

type IDatabase interface {
	ExecContext(ctx context.Context, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Rebind(query string) string
	Dialect() Dialect
	SQLx() *sqlx.DB
	Close() error
}

type Database struct {
	db      *sql.DB
	sqlx    *sqlx.DB
	dialect Dialect
}

var (
	instance *Database
)

func GetDB() IDatabase {
	return instance
}

// InitDB opens the database selected by config.Driver.
func InitDB(cfg config.DatabaseConfig) (Database, error) {
	var (
		db  Database
		err error
	)
	switch cfg.Driver {
	case DialectPostgres.Name:
		db, err = openPostgres(cfg)
	case DialectSQLite.Name:
		db, err = OpenSQLite(cfg.SQLitePath)
	default:
		return Database{}, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return Database{}, err
	}

	instance = &db
	return db, nil
}

func wrap(sqlxDB *sqlx.DB, dialect Dialect) Database {
	return Database{
		db:      sqlxDB.DB,
		sqlx:    sqlxDB,
		dialect: dialect,
	}
}

func (d *Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.sqlx.ExecContext(ctx, query, args...)
	return err
}

func (d *Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, query, args...)
}

func (d *Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, query, args...)
}

func (d *Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

func (d *Database) NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error) {
	return d.sqlx.NamedQueryContext(ctx, query, arg)
}

func (d *Database) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return d.sqlx.NamedExecContext(ctx, query, arg)
}

func (d *Database) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return d.sqlx.BeginTxx(ctx, opts)
}

// Rebind rewrites '?' placeholders into the driver's bind style.
func (d *Database) Rebind(query string) string {
	return d.sqlx.Rebind(query)
}

func (d *Database) Dialect() Dialect {
	return d.dialect
}

func (d *Database) SQLx() *sqlx.DB {
	return d.sqlx
}

func (d *Database) Close() error {
	return d.sqlx.Close()
}
