package database

import (
	"context"
	"database/sql"
	"iter"

	"github.com/jmoiron/sqlx"
)

func (s *Session) mustConn() *sqlx.DB {
	if s.conn == nil {
		panic(ErrNoConnection)
	}
	return s.conn
}

func (s *Session) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.mustConn().ExecContext(ctx, query, args...)
}

func (s *Session) get(ctx context.Context, dest any, query string, args ...any) error {
	return s.mustConn().GetContext(ctx, dest, query, args...)
}

func (s *Session) begin(ctx context.Context) (*sqlx.Tx, error) {
	return s.mustConn().BeginTxx(ctx, nil)
}

// queryEach streams rows into T one at a time. The rows are closed when the
// caller stops ranging or the result set is exhausted. A failure is yielded
// once with a nil value and ends the sequence.
func queryEach[T any](ctx context.Context, conn *sqlx.DB, op string, query string, args ...any) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		rows, err := conn.QueryxContext(ctx, query, args...)
		if err != nil {
			yield(nil, newStoreError(op, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var v T
			if err := rows.StructScan(&v); err != nil {
				yield(nil, newStoreError(op, err))
				return
			}
			if !yield(&v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, newStoreError(op, err))
		}
	}
}
