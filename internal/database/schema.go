package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// InitSchema creates the continent, country and region tables in the open
// database if they do not exist yet. Existing tables are left untouched.
func (s *Session) InitSchema(ctx context.Context) error {
	log.Info().Str("path", s.path).Msg("Creating dataset schema")

	return s.Transaction(ctx, func(tx *sqlx.Tx) error {
		statements := splitSQLStatements(schemaSQL)
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return newStoreError(fmt.Sprintf("create schema (statement %d)", i+1), err)
			}
		}
		return nil
	})
}

// Transaction wraps a function in a database transaction
func (s *Session) Transaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return newStoreError("begin transaction", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return newStoreError("commit transaction", err)
	}

	return nil
}

// splitSQLStatements splits a SQL string into individual statements.
// It handles comments and only returns non-empty statements.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
