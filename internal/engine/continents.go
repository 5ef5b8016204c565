package engine

import (
	"context"
	"iter"

	"github.com/rs/zerolog"

	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/events"
)

// ContinentManager serves continent requests
type ContinentManager struct {
	store *database.Session
}

// NewContinentManager creates a manager over the given session
func NewContinentManager(store *database.Session) *ContinentManager {
	return &ContinentManager{store: store}
}

// StartSearch yields one ContinentSearchResult per continent whose code OR
// name matches the request.
func (m *ContinentManager) StartSearch(ctx context.Context, req events.StartContinentSearch) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		filter := database.ContinentFilter{ContinentCode: req.ContinentCode, Name: req.Name}
		for continent, err := range m.store.SearchContinents(ctx, filter) {
			if err != nil {
				yield(queryFailed(ctx, "Continent search failed", err))
				return
			}
			if !yield(events.ContinentSearchResult{Continent: *continent}) {
				return
			}
		}
	}
}

// Load yields a ContinentLoaded, or nothing when the ID does not exist
func (m *ContinentManager) Load(ctx context.Context, req events.LoadContinent) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		continent, err := m.store.GetContinent(ctx, req.ContinentID)
		if err != nil {
			yield(queryFailed(ctx, "Failed to load continent", err))
			return
		}
		if continent == nil {
			zerolog.Ctx(ctx).Debug().Int64("continent_id", req.ContinentID).Msg("Continent not found")
			return
		}
		yield(events.ContinentLoaded{Continent: *continent})
	}
}

// SaveNew inserts the continent and echoes it back unchanged. The ID assigned
// by the store is not copied into the echo. A rejected insert yields
// SaveContinentFailed with the store's message.
func (m *ContinentManager) SaveNew(ctx context.Context, req events.SaveNewContinent) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		id, err := m.store.CreateContinent(ctx, req.Continent)
		if err != nil {
			saveFailed(ctx, "Failed to insert continent", err)
			yield(events.SaveContinentFailed{Message: err.Error()})
			return
		}

		zerolog.Ctx(ctx).Debug().Int64("continent_id", id).Msg("Continent inserted")
		yield(events.ContinentSaved{Continent: req.Continent})
	}
}

// Save updates the continent with the request's ID and echoes it back, even
// when no row has that ID.
func (m *ContinentManager) Save(ctx context.Context, req events.SaveContinent) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		n, err := m.store.UpdateContinent(ctx, req.Continent)
		if err != nil {
			saveFailed(ctx, "Failed to update continent", err)
			yield(events.SaveContinentFailed{Message: err.Error()})
			return
		}
		if n == 0 {
			noRowsUpdated(ctx, "continent_id", req.Continent.ContinentID)
		}
		yield(events.ContinentSaved{Continent: req.Continent})
	}
}
