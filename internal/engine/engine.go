package engine

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/events"
)

// Engine dispatches request events against one database session
type Engine struct {
	session    *database.Session
	continents *ContinentManager
	countries  *CountryManager
	regions    *RegionManager
}

// New creates an engine. All managers share the given session, so opening or
// closing a database through the engine is seen by every manager.
func New(session *database.Session) *Engine {
	return &Engine{
		session:    session,
		continents: NewContinentManager(session),
		countries:  NewCountryManager(session),
		regions:    NewRegionManager(session),
	}
}

// Session returns the session the engine operates on
func (e *Engine) Session() *database.Session {
	return e.session
}

// Close releases the open database, if any
func (e *Engine) Close() error {
	return e.session.Close()
}

// parentLogger returns the logger carried by ctx, falling back to the global
// logger when ctx has none.
func parentLogger(ctx context.Context) *zerolog.Logger {
	if logger := zerolog.Ctx(ctx); logger.GetLevel() != zerolog.Disabled {
		return logger
	}
	return &log.Logger
}

// Process handles one request and returns its responses.
func (e *Engine) Process(ctx context.Context, req events.Request) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		logger := parentLogger(ctx).With().
			Str("request_id", uuid.NewString()).
			Str("kind", kindOf(req)).
			Logger()
		ctx := logger.WithContext(ctx)

		logger.Debug().Msg("Processing request")

		count := 0
		for resp := range e.route(ctx, req) {
			count++
			logger.Trace().Str("response", resp.Kind()).Msg("Response")
			if !yield(resp) {
				return
			}
		}

		logger.Debug().Int("responses", count).Msg("Request processed")
	}
}

func (e *Engine) route(ctx context.Context, req events.Request) iter.Seq[events.Response] {
	switch r := req.(type) {
	case events.Quit:
		return e.quit(ctx)
	case events.OpenDatabase:
		return e.openDatabase(ctx, r)
	case events.CloseDatabase:
		return e.closeDatabase(ctx)

	case events.StartContinentSearch:
		return e.continents.StartSearch(ctx, r)
	case events.LoadContinent:
		return e.continents.Load(ctx, r)
	case events.SaveNewContinent:
		return e.continents.SaveNew(ctx, r)
	case events.SaveContinent:
		return e.continents.Save(ctx, r)

	case events.StartCountrySearch:
		return e.countries.StartSearch(ctx, r)
	case events.LoadCountry:
		return e.countries.Load(ctx, r)
	case events.SaveNewCountry:
		return e.countries.SaveNew(ctx, r)
	case events.SaveCountry:
		return e.countries.Save(ctx, r)

	case events.StartRegionSearch:
		return e.regions.StartSearch(ctx, r)
	case events.LoadRegion:
		return e.regions.Load(ctx, r)
	case events.SaveNewRegion:
		return e.regions.SaveNew(ctx, r)
	case events.SaveRegion:
		return e.regions.Save(ctx, r)

	default:
		// events.Unrecognized and nil land here
		return single(events.Error{Message: fmt.Sprintf("ERROR: unrecognized request %q", kindOf(req))})
	}
}

func (e *Engine) openDatabase(ctx context.Context, req events.OpenDatabase) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		if err := e.session.Open(ctx, req.Path); err != nil {
			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("path", req.Path).
				Str("error_kind", string(database.KindOf(err))).
				Msg("Failed to open database")
			yield(events.DatabaseOpenFailed{Message: err.Error()})
			return
		}

		zerolog.Ctx(ctx).Info().Str("path", req.Path).Msg("Database opened")
		yield(events.DatabaseOpened{Path: req.Path})
	}
}

func (e *Engine) closeDatabase(ctx context.Context) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		e.release(ctx)
		yield(events.DatabaseClosed{})
	}
}

func (e *Engine) quit(ctx context.Context) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		e.release(ctx)
		yield(events.EndApplication{})
	}
}

// release closes the session. The handle is dropped even when closing it
// fails, so the failure is only logged.
func (e *Engine) release(ctx context.Context) {
	path := e.session.Path()
	if err := e.session.Close(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("path", path).Msg("Failed to close database")
		return
	}
	if path != "" {
		zerolog.Ctx(ctx).Info().Str("path", path).Msg("Database closed")
	}
}

func kindOf(req events.Request) string {
	if req == nil {
		return "<nil>"
	}
	return req.Kind()
}

func single(resp events.Response) iter.Seq[events.Response] {
	return func(yield func(events.Response) bool) {
		yield(resp)
	}
}
