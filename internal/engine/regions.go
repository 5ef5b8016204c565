package engine

import (
	"context"
	"iter"

	"github.com/rs/zerolog"

	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/events"
)

// RegionManager serves region requests
type RegionManager struct {
	store *database.Session
}

// NewRegionManager creates a manager over the given session
func NewRegionManager(store *database.Session) *RegionManager {
	return &RegionManager{store: store}
}

// StartSearch yields one RegionSearchResult per region matching all of the
// fields present in the request, or every region when none are present.
func (m *RegionManager) StartSearch(ctx context.Context, req events.StartRegionSearch) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		filter := database.RegionFilter{RegionCode: req.RegionCode, LocalCode: req.LocalCode, Name: req.Name}
		for region, err := range m.store.SearchRegions(ctx, filter) {
			if err != nil {
				yield(queryFailed(ctx, "Region search failed", err))
				return
			}
			if !yield(events.RegionSearchResult{Region: *region}) {
				return
			}
		}
	}
}

// Load yields a RegionLoaded, or nothing when the ID does not exist
func (m *RegionManager) Load(ctx context.Context, req events.LoadRegion) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		region, err := m.store.GetRegion(ctx, req.RegionID)
		if err != nil {
			yield(queryFailed(ctx, "Failed to load region", err))
			return
		}
		if region == nil {
			zerolog.Ctx(ctx).Debug().Int64("region_id", req.RegionID).Msg("Region not found")
			return
		}
		yield(events.RegionLoaded{Region: *region})
	}
}

// SaveNew inserts the region and echoes it back unchanged. The ID assigned
// by the store is not copied into the echo. A rejected insert yields
// SaveRegionFailed with the store's message.
func (m *RegionManager) SaveNew(ctx context.Context, req events.SaveNewRegion) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		id, err := m.store.CreateRegion(ctx, req.Region)
		if err != nil {
			saveFailed(ctx, "Failed to insert region", err)
			yield(events.SaveRegionFailed{Message: err.Error()})
			return
		}

		zerolog.Ctx(ctx).Debug().Int64("region_id", id).Msg("Region inserted")
		yield(events.RegionSaved{Region: req.Region})
	}
}

// Save updates the region with the request's ID and echoes it back, even when
// no row has that ID.
func (m *RegionManager) Save(ctx context.Context, req events.SaveRegion) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		n, err := m.store.UpdateRegion(ctx, req.Region)
		if err != nil {
			saveFailed(ctx, "Failed to update region", err)
			yield(events.SaveRegionFailed{Message: err.Error()})
			return
		}
		if n == 0 {
			noRowsUpdated(ctx, "region_id", req.Region.RegionID)
		}
		yield(events.RegionSaved{Region: req.Region})
	}
}
