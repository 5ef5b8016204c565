package database

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrorKind categorizes a store failure.
type ErrorKind string

const (
	// KindConstraint covers unique, not-null, check and foreign key violations.
	KindConstraint ErrorKind = "constraint"

	// KindCorrupt means the file is damaged or is not a SQLite database.
	KindCorrupt ErrorKind = "corrupt"

	// KindIO covers files that cannot be opened, read or written.
	KindIO ErrorKind = "io"

	// KindInvalidValue means a parameter could not be stored in its column.
	KindInvalidValue ErrorKind = "invalid_value"

	KindOther ErrorKind = "other"
)

// StoreError is returned by every failed store operation.
type StoreError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Kind: classify(err), Err: err}
}

// KindOf returns the kind of a store error, or KindOther for any other error
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}

// IsConstraint reports whether err is a constraint violation
func IsConstraint(err error) bool {
	return KindOf(err) == KindConstraint
}

func classify(err error) ErrorKind {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return KindOther
	}

	// Extended result codes carry the primary code in the low byte
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return KindConstraint
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return KindCorrupt
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_READONLY,
		sqlite3.SQLITE_PERM, sqlite3.SQLITE_FULL:
		return KindIO
	case sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_RANGE, sqlite3.SQLITE_TOOBIG:
		return KindInvalidValue
	default:
		return KindOther
	}
}
