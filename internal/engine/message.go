package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/geoedit/internal/events"
)

// HandleMessage decodes one wire-format request, processes it and passes every
// response to emit in order. Input that is not valid JSON is answered with a
// single Error response. The returned bool reports whether the request ended
// the application.
func (e *Engine) HandleMessage(ctx context.Context, data []byte, emit func(events.Response) error) (bool, error) {
	req, err := events.DecodeRequest(data)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected malformed request")
		return false, emit(events.Error{Message: fmt.Sprintf("ERROR: %v", err)})
	}

	quit := false
	for resp := range e.Process(ctx, req) {
		if _, ok := resp.(events.EndApplication); ok {
			quit = true
		}
		if err := emit(resp); err != nil {
			return quit, err
		}
	}
	return quit, nil
}
