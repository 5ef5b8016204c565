// Package script replays a YAML file of requests against the engine.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/saltyorg/geoedit/internal/engine"
	"github.com/saltyorg/geoedit/internal/events"
)

// Script is a named list of requests.
type Script struct {
	// Name identifies the script in logs and golden files.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// InitSchema creates any missing tables right after each successful
	// open_database request, so a script can start from an empty file.
	InitSchema bool `yaml:"init_schema,omitempty"`

	// Requests use the wire field names, with the type tag under "type".
	Requests []map[string]any `yaml:"requests"`
}

// Format selects how Run prints the conversation
type Format string

const (
	// FormatText prints each request prefixed with "> " followed by its
	// responses prefixed with "< ".
	FormatText Format = "text"

	// FormatJSON prints only the responses, one JSON object per line.
	FormatJSON Format = "json"
)

// Load reads and parses a script file
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a script, rejecting unknown top-level fields
func Parse(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(s.Requests) == 0 {
		return nil, fmt.Errorf("script %q has no requests", s.Name)
	}
	return &s, nil
}

// Decode converts the YAML requests into request events. Unknown type tags
// become events.Unrecognized, as they would on the wire.
func (s *Script) Decode() ([]events.Request, error) {
	reqs := make([]events.Request, 0, len(s.Requests))
	for i, raw := range s.Requests {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		req, err := events.DecodeRequest(data)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Run sends every request of the script to the engine in order and writes the
// conversation to w. It stops after a quit request.
func Run(ctx context.Context, eng *engine.Engine, s *Script, w io.Writer, format Format) error {
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("unknown output format %q", format)
	}

	reqs, err := s.Decode()
	if err != nil {
		return fmt.Errorf("script %q: %w", s.Name, err)
	}

	logger := log.With().Str("script", s.Name).Logger()
	logger.Info().Int("requests", len(reqs)).Msg("Running script")

	for i, req := range reqs {
		if format == FormatText {
			data, err := events.EncodeRequest(req)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "> %s\n", data); err != nil {
				return err
			}
		}

		quit := false
		for resp := range eng.Process(ctx, req) {
			if err := writeResponse(w, resp, format); err != nil {
				return err
			}

			switch resp.(type) {
			case events.DatabaseOpened:
				if s.InitSchema {
					if err := eng.Session().InitSchema(ctx); err != nil {
						return fmt.Errorf("script %q: %w", s.Name, err)
					}
				}
			case events.EndApplication:
				quit = true
			}
		}

		if quit {
			if rest := len(reqs) - i - 1; rest > 0 {
				logger.Warn().Int("skipped", rest).Msg("Script quit before its last request")
			}
			break
		}
	}

	logger.Info().Msg("Script finished")
	return nil
}

func writeResponse(w io.Writer, resp events.Response, format Format) error {
	data, err := events.EncodeResponse(resp)
	if err != nil {
		return err
	}
	if format == FormatText {
		_, err = fmt.Fprintf(w, "< %s\n", data)
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
