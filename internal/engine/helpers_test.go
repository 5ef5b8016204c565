package engine

import (
	"context"
	"iter"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/events"
)

// newTestEngine returns an engine with a fresh dataset file already open.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	eng := New(database.NewSession())
	t.Cleanup(func() { _ = eng.Close() })

	path := filepath.Join(t.TempDir(), "geo.db")
	got := drain(eng.Process(context.Background(), events.OpenDatabase{Path: path}))
	require.Equal(t, []events.Response{events.DatabaseOpened{Path: path}}, got)
	require.NoError(t, eng.Session().InitSchema(context.Background()))
	return eng
}

func drain(seq iter.Seq[events.Response]) []events.Response {
	var out []events.Response
	for resp := range seq {
		out = append(out, resp)
	}
	return out
}

func process(t *testing.T, eng *Engine, req events.Request) []events.Response {
	t.Helper()
	return drain(eng.Process(context.Background(), req))
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func countRows(t *testing.T, eng *Engine, table string) int {
	t.Helper()

	var n int
	require.NoError(t, eng.Session().Conn().Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

// insertContinent saves a continent through the engine and returns the
// store-assigned ID, which the echoed response does not carry.
func insertContinent(t *testing.T, eng *Engine, code, name string) int64 {
	t.Helper()

	c := database.Continent{ContinentCode: code, Name: name}
	got := process(t, eng, events.SaveNewContinent{Continent: c})
	require.Equal(t, []events.Response{events.ContinentSaved{Continent: c}}, got)

	var id int64
	require.NoError(t, eng.Session().Conn().Get(&id, "SELECT continent_id FROM continent WHERE continent_code = ?", code))
	return id
}
