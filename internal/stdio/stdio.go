// Package stdio serves the engine over newline-delimited JSON: one request per
// input line, one response per output line.
package stdio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/geoedit/internal/engine"
	"github.com/saltyorg/geoedit/internal/events"
)

const maxLineSize = 4 * 1024 * 1024

// Serve reads requests from r and writes responses to w until a quit request
// is handled, r reaches EOF or ctx is cancelled. Blank lines are ignored.
//
// Reads happen on a separate goroutine. On cancellation Serve closes r if it is
// an io.Closer so that goroutine can return; a reader that cannot be closed, or
// whose Close does not interrupt a pending Read, keeps it blocked until the
// next line or EOF arrives.
func Serve(ctx context.Context, eng *engine.Engine, r io.Reader, w io.Writer) error {
	done := make(chan struct{})
	defer close(done)

	lines, readErr := readLines(r, done)
	out := bufio.NewWriter(w)

	emit := func(resp events.Response) error {
		data, err := events.EncodeResponse(resp)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
		return out.WriteByte('\n')
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Stopping stdio loop: context cancelled")
			if closer, ok := r.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					log.Debug().Err(err).Msg("Failed to close input")
				}
			}
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read request: %w", err)
				}
				log.Debug().Msg("Input closed")
				return nil
			}

			quit, err := eng.HandleMessage(ctx, []byte(line), emit)
			if err == nil {
				err = out.Flush()
			}
			if err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// readLines scans r in the background. The line channel is closed at EOF or on
// a read error, after which readErr delivers the error (nil at EOF). Closing
// done stops delivery but cannot interrupt a Read already in progress.
func readLines(r io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(readErr)
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case lines <- line:
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}
