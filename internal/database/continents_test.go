package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func continentNames(continents []Continent) []string {
	names := make([]string, 0, len(continents))
	for _, c := range continents {
		names = append(names, c.Name)
	}
	return names
}

func TestSearchContinents_EmptyTable(t *testing.T) {
	s := openTestSession(t)

	found := collect(t, s.SearchContinents(context.Background(), ContinentFilter{ContinentCode: strPtr("AF")}))
	assert.Empty(t, found)
}

func TestSearchContinents(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	mustCreateContinent(t, s, "AF", "Africa")
	mustCreateContinent(t, s, "AS", "Asia")
	mustCreateContinent(t, s, "EU", "Europe")

	tests := []struct {
		name   string
		filter ContinentFilter
		want   []string
	}{
		{"code only", ContinentFilter{ContinentCode: strPtr("AF")}, []string{"Africa"}},
		{"name only", ContinentFilter{Name: strPtr("Asia")}, []string{"Asia"}},
		{"code or name", ContinentFilter{ContinentCode: strPtr("EU"), Name: strPtr("Asia")}, []string{"Asia", "Europe"}},
		{"both fields of the same row", ContinentFilter{ContinentCode: strPtr("AF"), Name: strPtr("Africa")}, []string{"Africa"}},
		{"no filters matches nothing", ContinentFilter{}, nil},
		{"no match", ContinentFilter{ContinentCode: strPtr("ZZ")}, nil},
		{"exact equality only", ContinentFilter{Name: strPtr("afr")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := collect(t, s.SearchContinents(ctx, tt.filter))
			assert.ElementsMatch(t, tt.want, continentNames(found))
		})
	}
}

func TestSearchContinents_StopEarly(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	mustCreateContinent(t, s, "AF", "Africa")
	mustCreateContinent(t, s, "AS", "Asia")

	for c, err := range s.SearchContinents(ctx, ContinentFilter{ContinentCode: strPtr("AF"), Name: strPtr("Asia")}) {
		require.NoError(t, err)
		require.NotNil(t, c)
		break
	}

	// The rows must be released so the single connection is usable again
	_, err := s.GetContinent(ctx, 1)
	require.NoError(t, err)
}

func TestGetContinent(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	id := mustCreateContinent(t, s, "AF", "Africa")

	got, err := s.GetContinent(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, Continent{ContinentID: id, ContinentCode: "AF", Name: "Africa"}, *got)

	missing, err := s.GetContinent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateContinent_DuplicateCode(t *testing.T) {
	s := openTestSession(t)
	mustCreateContinent(t, s, "AF", "Africa")

	_, err := s.CreateContinent(context.Background(), Continent{ContinentCode: "AF", Name: "Afrique"})
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.Contains(t, err.Error(), "failed to insert continent")

	found := collect(t, s.SearchContinents(context.Background(), ContinentFilter{ContinentCode: strPtr("AF")}))
	assert.Equal(t, []string{"Africa"}, continentNames(found))
}

func TestUpdateContinent(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	id := mustCreateContinent(t, s, "AF", "Africa")

	n, err := s.UpdateContinent(ctx, Continent{ContinentID: id, ContinentCode: "AF", Name: "Afrique"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.GetContinent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Afrique", got.Name)

	n, err = s.UpdateContinent(ctx, Continent{ContinentID: 9999, ContinentCode: "XX", Name: "Nowhere"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateContinent_ConstraintLeavesRowUnchanged(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	mustCreateContinent(t, s, "AF", "Africa")
	id := mustCreateContinent(t, s, "AS", "Asia")

	_, err := s.UpdateContinent(ctx, Continent{ContinentID: id, ContinentCode: "AF", Name: "Asia Renamed"})
	require.Error(t, err)
	assert.Equal(t, KindConstraint, KindOf(err))

	got, err := s.GetContinent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Continent{ContinentID: id, ContinentCode: "AS", Name: "Asia"}, *got)
}
