package database

import (
	"context"
	"iter"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// openTestSession opens a fresh database file with the dataset schema applied.
func openTestSession(t *testing.T) *Session {
	t.Helper()

	s := NewSession()
	require.NoError(t, s.Open(context.Background(), filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, s.InitSchema(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

// collect drains a search sequence, failing the test on the first error.
func collect[T any](t *testing.T, seq iter.Seq2[*T, error]) []T {
	t.Helper()

	var out []T
	for v, err := range seq {
		require.NoError(t, err)
		out = append(out, *v)
	}
	return out
}

func mustCreateContinent(t *testing.T, s *Session, code, name string) int64 {
	t.Helper()

	id, err := s.CreateContinent(context.Background(), Continent{ContinentCode: code, Name: name})
	require.NoError(t, err)
	return id
}
