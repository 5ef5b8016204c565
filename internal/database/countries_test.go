package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryRoundTrip_Nullable(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	continentID := mustCreateContinent(t, s, "EU", "Europe")

	withLinks := Country{
		CountryCode:   "FR",
		Name:          "France",
		ContinentID:   int64Ptr(continentID),
		WikipediaLink: strPtr("https://en.wikipedia.org/wiki/France"),
	}
	id, err := s.CreateCountry(ctx, withLinks)
	require.NoError(t, err)

	got, err := s.GetCountry(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	withLinks.CountryID = id
	assert.Equal(t, withLinks, *got)

	bare := Country{CountryCode: "XK", Name: "Kosovo"}
	id, err = s.CreateCountry(ctx, bare)
	require.NoError(t, err)

	got, err = s.GetCountry(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.ContinentID)
	assert.Nil(t, got.WikipediaLink)
}

func TestCreateCountry_UnknownContinent(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()

	_, err := s.CreateCountry(ctx, Country{CountryCode: "FR", Name: "France", ContinentID: int64Ptr(42)})
	require.Error(t, err)
	assert.Equal(t, KindConstraint, KindOf(err))
	assert.Contains(t, err.Error(), "FOREIGN KEY")

	found := collect(t, s.SearchCountries(ctx, CountryFilter{CountryCode: strPtr("FR")}))
	assert.Empty(t, found)
}

func TestSearchCountries_Or(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	for _, c := range []Country{
		{CountryCode: "FR", Name: "France"},
		{CountryCode: "DE", Name: "Germany"},
		{CountryCode: "IT", Name: "Italy"},
	} {
		_, err := s.CreateCountry(ctx, c)
		require.NoError(t, err)
	}

	found := collect(t, s.SearchCountries(ctx, CountryFilter{CountryCode: strPtr("FR"), Name: strPtr("Italy")}))
	codes := make([]string, 0, len(found))
	for _, c := range found {
		codes = append(codes, c.CountryCode)
	}
	assert.ElementsMatch(t, []string{"FR", "IT"}, codes)

	found = collect(t, s.SearchCountries(ctx, CountryFilter{Name: strPtr("Germany")}))
	require.Len(t, found, 1)
	assert.Equal(t, "DE", found[0].CountryCode)

	assert.Empty(t, collect(t, s.SearchCountries(ctx, CountryFilter{})))
}

func TestUpdateCountry(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()
	continentID := mustCreateContinent(t, s, "EU", "Europe")

	id, err := s.CreateCountry(ctx, Country{CountryCode: "FR", Name: "France"})
	require.NoError(t, err)

	updated := Country{CountryID: id, CountryCode: "FR", Name: "French Republic", ContinentID: int64Ptr(continentID)}
	n, err := s.UpdateCountry(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.GetCountry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, updated, *got)

	_, err = s.UpdateCountry(ctx, Country{CountryID: id, CountryCode: "FR", Name: "France", ContinentID: int64Ptr(777)})
	require.Error(t, err)
	assert.True(t, IsConstraint(err))

	got, err = s.GetCountry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, updated, *got)
}
