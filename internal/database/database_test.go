package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")

	s := NewSession()
	require.NoError(t, s.Open(context.Background(), path))
	defer s.Close()

	assert.True(t, s.IsOpen())
	assert.Equal(t, path, s.Path())
	assert.NotNil(t, s.Conn())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_EnablesForeignKeys(t *testing.T) {
	s := openTestSession(t)

	var enabled int
	require.NoError(t, s.Conn().Get(&enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)
}

func TestOpen_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a sqlite database\n", 200)), 0o644))

	s := NewSession()
	err := s.Open(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, KindCorrupt, KindOf(err))
	assert.False(t, s.IsOpen())
}

func TestOpen_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")

	s := NewSession()
	err := s.Open(context.Background(), path)
	require.Error(t, err)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "open database", se.Op)
	assert.False(t, s.IsOpen())
}

func TestOpen_ReplacesPreviousSession(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.db")
	second := filepath.Join(dir, "second.db")

	s := NewSession()
	require.NoError(t, s.Open(context.Background(), first))
	firstConn := s.Conn()

	require.NoError(t, s.Open(context.Background(), second))
	defer s.Close()

	assert.Equal(t, second, s.Path())
	assert.Error(t, firstConn.Ping(), "previous handle should be closed")
}

func TestOpen_FailureClosesPreviousSession(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Open(context.Background(), filepath.Join(t.TempDir(), "ok.db")))

	err := s.Open(context.Background(), filepath.Join(t.TempDir(), "missing", "x.db"))
	require.Error(t, err)
	assert.False(t, s.IsOpen())
	assert.Empty(t, s.Path())
}

func TestOpen_ReplacesTemporarySession(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Open(context.Background(), ""))
	assert.True(t, s.IsOpen())
	temporary := s.Conn()

	require.NoError(t, s.Open(context.Background(), filepath.Join(t.TempDir(), "b.db")))
	defer s.Close()

	assert.Error(t, temporary.Ping(), "temporary handle should be closed")
}

func TestOpen_FileNameWithURICharacters(t *testing.T) {
	names := []string{"geo?v2.db", "geo#2.db", "geo%41.db", "with space.db"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)

			s := NewSession()
			require.NoError(t, s.Open(context.Background(), path))
			_, err := s.Conn().Exec("CREATE TABLE marker (id INTEGER)")
			require.NoError(t, err)
			assert.Equal(t, path, s.Path())
			require.NoError(t, s.Close())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			var files []string
			for _, e := range entries {
				files = append(files, e.Name())
			}
			assert.Equal(t, []string{name}, files)
		})
	}
}

func TestOpen_RelativePath(t *testing.T) {
	t.Chdir(t.TempDir())

	s := NewSession()
	require.NoError(t, s.Open(context.Background(), "rel.db"))
	defer s.Close()

	assert.Equal(t, "rel.db", s.Path())
	_, err := os.Stat("rel.db")
	assert.NoError(t, err)
}

func TestSessionDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "", want: "file:?_pragma=foreign_keys(1)"},
		{path: ":memory:", want: "file::memory:?_pragma=foreign_keys(1)"},
		{path: "/data/geo?v2.db", want: "file:///data/geo%3Fv2.db?_pragma=foreign_keys(1)"},
		{path: "/data/geo#2.db", want: "file:///data/geo%232.db?_pragma=foreign_keys(1)"},
	}
	for _, tt := range tests {
		got, err := sessionDSN(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestClose_Idempotent(t *testing.T) {
	s := NewSession()
	assert.NoError(t, s.Close(), "closing with nothing open")

	require.NoError(t, s.Open(context.Background(), filepath.Join(t.TempDir(), "a.db")))
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.False(t, s.IsOpen())
	assert.Nil(t, s.Conn())
}

func TestStoreCallsWithoutSessionPanic(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	assert.PanicsWithValue(t, ErrNoConnection, func() {
		_, _ = s.GetContinent(ctx, 1)
	})
	assert.PanicsWithValue(t, ErrNoConnection, func() {
		s.SearchRegions(ctx, RegionFilter{})
	})
	assert.PanicsWithValue(t, ErrNoConnection, func() {
		_, _ = s.CreateCountry(ctx, Country{CountryCode: "XX", Name: "X"})
	})

	// Closing must put the session back into the same state
	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "a.db")))
	require.NoError(t, s.Close())
	assert.PanicsWithValue(t, ErrNoConnection, func() {
		_, _ = s.UpdateContinent(ctx, Continent{ContinentID: 1})
	})
}

func TestInitSchema_Idempotent(t *testing.T) {
	s := openTestSession(t)
	require.NoError(t, s.InitSchema(context.Background()))

	var tables int
	require.NoError(t, s.Conn().Get(&tables,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('continent', 'country', 'region')"))
	assert.Equal(t, 3, tables)
}

func TestSplitSQLStatements(t *testing.T) {
	stmts := splitSQLStatements(`
		-- comment
		CREATE TABLE a (id INTEGER);

		CREATE TABLE b (
			id INTEGER
		);
		SELECT 1`)

	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (id INTEGER);", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE b")
	assert.Equal(t, "SELECT 1", stmts[2])
}

func TestMaintenance(t *testing.T) {
	s := openTestSession(t)
	mustCreateContinent(t, s, "EU", "Europe")

	assert.NoError(t, s.Optimize(context.Background()))
	assert.NoError(t, s.Vacuum(context.Background()))
}
