package database

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"mediation-api/core/logger"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate applies the idempotent schema for the database's dialect.
func Migrate(ctx context.Context, db IDatabase) error {
	dialect := db.Dialect()
	raw, err := schemaFS.ReadFile(dialect.SchemaFile())
	if err != nil {
		return fmt.Errorf("read schema for %s: %w", dialect.Name, err)
	}

	for _, stmt := range splitStatements(string(raw)) {
		if err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("Database:Migrate:Error", "dialect", dialect.Name, "error", err)
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	logger.Info("Database:Migrate:Done", "dialect", dialect.Name)
	return nil
}

func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
