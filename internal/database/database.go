package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// ErrNoConnection is the panic value raised when a store method runs without
// an open session. Callers must open a database before issuing requests.
var ErrNoConnection = errors.New("no database is open")

// Session owns the single live SQLite handle.
// At most one database is open at a time; opening another one closes the first.
type Session struct {
	conn *sqlx.DB
	path string
}

// NewSession creates a session with no database open
func NewSession() *Session {
	return &Session{}
}

// Open opens (creating if absent) the database file at path and makes it the
// current session. Any previously open database is closed first, so a failed
// Open leaves no database open.
func (s *Session) Open(ctx context.Context, path string) error {
	if s.conn != nil {
		previous := s.path
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Str("path", previous).Msg("Failed to close previous database")
		}
	}

	dsn, err := sessionDSN(path)
	if err != nil {
		return newStoreError("open database", err)
	}

	conn, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return newStoreError("open database", err)
	}

	// One connection keeps the pragma and the session state in a single place
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := verifySession(ctx, conn); err != nil {
		conn.Close()
		return err
	}

	s.conn = conn
	s.path = path

	log.Debug().Str("path", path).Msg("Database connection established")
	return nil
}

// sessionDSN builds a file: URI for path so that '?', '#' and '%' in file
// names are escaped instead of being read as URI syntax. Relative paths are
// made absolute; "" and ":memory:" keep their SQLite meaning of a private
// temporary or in-memory database.
func sessionDSN(path string) (string, error) {
	// Foreign keys are off by default in SQLite and are a per-connection setting
	u := url.URL{Scheme: "file", RawQuery: "_pragma=foreign_keys(1)"}

	switch path {
	case "":
	case ":memory:":
		u.Opaque = path
	default:
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve path %q: %w", path, err)
		}
		u.Path = filepath.ToSlash(abs)
	}
	return u.String(), nil
}

// verifySession checks that foreign keys are enforced and that the file is
// readable as a database. SQLite opens lazily, so a corrupt or foreign file
// only fails on first read.
func verifySession(ctx context.Context, conn *sqlx.DB) error {
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return newStoreError("enable foreign keys", err)
	}

	var enabled int
	if err := conn.GetContext(ctx, &enabled, "PRAGMA foreign_keys"); err != nil {
		return newStoreError("read foreign_keys pragma", err)
	}
	if enabled != 1 {
		return &StoreError{Op: "enable foreign keys", Kind: KindOther, Err: errors.New("foreign key enforcement is not available")}
	}

	var tables int
	if err := conn.GetContext(ctx, &tables, "SELECT COUNT(*) FROM sqlite_master"); err != nil {
		return newStoreError("read database", err)
	}
	return nil
}

// Close releases the current database. Closing with nothing open is a no-op.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}

	conn, path := s.conn, s.path
	s.conn = nil
	s.path = ""

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close database %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Database connection closed")
	return nil
}

// Path returns the path of the open database, or "" when none is open
func (s *Session) Path() string {
	return s.path
}

// IsOpen reports whether a database is currently open
func (s *Session) IsOpen() bool {
	return s.conn != nil
}

// Conn returns the live handle, or nil when no database is open
func (s *Session) Conn() *sqlx.DB {
	return s.conn
}
