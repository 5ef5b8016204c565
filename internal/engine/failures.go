package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/events"
)

// queryFailed logs a failed read and converts it into an Error response.
// Reads have no typed failure event of their own.
func queryFailed(ctx context.Context, msg string, err error) events.Response {
	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("error_kind", string(database.KindOf(err))).
		Msg(msg)
	return events.Error{Message: err.Error()}
}

func saveFailed(ctx context.Context, msg string, err error) {
	zerolog.Ctx(ctx).Warn().
		Err(err).
		Str("error_kind", string(database.KindOf(err))).
		Msg(msg)
}

// noRowsUpdated flags an update whose ID matched nothing. The request is still
// answered as saved.
func noRowsUpdated(ctx context.Context, idField string, id int64) {
	zerolog.Ctx(ctx).Warn().Int64(idField, id).Msg("Update matched no rows; nothing was changed")
}
