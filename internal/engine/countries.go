package engine

import (
	"context"
	"iter"

	"github.com/rs/zerolog"

	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/events"
)

// CountryManager serves country requests
type CountryManager struct {
	store *database.Session
}

// NewCountryManager creates a manager over the given session
func NewCountryManager(store *database.Session) *CountryManager {
	return &CountryManager{store: store}
}

// StartSearch yields one CountrySearchResult per country whose code OR name
// matches the request.
func (m *CountryManager) StartSearch(ctx context.Context, req events.StartCountrySearch) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		filter := database.CountryFilter{CountryCode: req.CountryCode, Name: req.Name}
		for country, err := range m.store.SearchCountries(ctx, filter) {
			if err != nil {
				yield(queryFailed(ctx, "Country search failed", err))
				return
			}
			if !yield(events.CountrySearchResult{Country: *country}) {
				return
			}
		}
	}
}

// Load yields a CountryLoaded, or nothing when the ID does not exist
func (m *CountryManager) Load(ctx context.Context, req events.LoadCountry) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		country, err := m.store.GetCountry(ctx, req.CountryID)
		if err != nil {
			yield(queryFailed(ctx, "Failed to load country", err))
			return
		}
		if country == nil {
			zerolog.Ctx(ctx).Debug().Int64("country_id", req.CountryID).Msg("Country not found")
			return
		}
		yield(events.CountryLoaded{Country: *country})
	}
}

// SaveNew inserts the country and echoes it back unchanged. The ID assigned
// by the store is not copied into the echo. A rejected insert yields
// SaveCountryFailed with the store's message.
func (m *CountryManager) SaveNew(ctx context.Context, req events.SaveNewCountry) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		id, err := m.store.CreateCountry(ctx, req.Country)
		if err != nil {
			saveFailed(ctx, "Failed to insert country", err)
			yield(events.SaveCountryFailed{Message: err.Error()})
			return
		}

		zerolog.Ctx(ctx).Debug().Int64("country_id", id).Msg("Country inserted")
		yield(events.CountrySaved{Country: req.Country})
	}
}

// Save updates the country with the request's ID and echoes it back, even when
// no row has that ID.
func (m *CountryManager) Save(ctx context.Context, req events.SaveCountry) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		n, err := m.store.UpdateCountry(ctx, req.Country)
		if err != nil {
			saveFailed(ctx, "Failed to update country", err)
			yield(events.SaveCountryFailed{Message: err.Error()})
			return
		}
		if n == 0 {
			noRowsUpdated(ctx, "country_id", req.Country.CountryID)
		}
		yield(events.CountrySaved{Country: req.Country})
	}
}
