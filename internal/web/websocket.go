package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/geoedit/internal/config"
	"github.com/saltyorg/geoedit/internal/database"
	"github.com/saltyorg/geoedit/internal/events"
)

// claimClient registers conn as the only client. It fails if one is already connected.
func (s *Server) claimClient(conn *websocket.Conn) bool {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	if s.client != nil {
		return false
	}
	s.client = conn
	return true
}

func (s *Server) releaseClient(conn *websocket.Conn) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	if s.client == conn {
		s.client = nil
	}
}

func (s *Server) clientActive() bool {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	return s.client != nil
}

// disconnectClient closes the active client connection, if any
func (s *Server) disconnectClient() {
	s.clientMu.Lock()
	conn := s.client
	s.clientMu.Unlock()
	if conn == nil {
		return
	}

	deadline := time.Now().Add(config.GetTimeouts().WebSocketWrite)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
	_ = conn.Close()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Checked before the upgrade so the rejected client gets a plain HTTP status
	if s.clientActive() {
		http.Error(w, "another client is connected", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	if !s.claimClient(conn) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "another client is connected"))
		return
	}
	defer s.releaseClient(conn)

	logger := sessionLogger(r)
	logger.Info().Msg("Client connected")

	ctx, cancel := context.WithCancel(logger.WithContext(r.Context()))
	defer cancel()

	timeouts := config.GetTimeouts()
	pongWait := timeouts.WebSocketPing + timeouts.WebSocketWrite
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go s.keepAlive(ctx, conn, timeouts)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("Client connection lost")
			} else {
				logger.Info().Msg("Client disconnected")
			}
			return
		}
		if msgType != websocket.TextMessage {
			logger.Debug().Int("message_type", msgType).Msg("Ignoring non-text message")
			continue
		}

		quit, err := s.handleMessage(ctx, conn, data)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to send response")
			return
		}
		if quit {
			deadline := time.Now().Add(timeouts.WebSocketWrite)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "end of application"), deadline)
			s.signalQuit()
			return
		}
	}
}

// handleMessage runs one request through the engine and writes each response
// as a text message. A request sent while no database is open is answered
// with an Error response instead of taking the server down.
func (s *Server) handleMessage(ctx context.Context, conn *websocket.Conn, data []byte) (quit bool, err error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	writeTimeout := config.GetTimeouts().WebSocketWrite
	emit := func(resp events.Response) error {
		payload, err := events.EncodeResponse(resp)
		if err != nil {
			return err
		}
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, payload)
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec != database.ErrNoConnection {
			panic(rec)
		}
		log.Ctx(ctx).Warn().Msg("Request received with no database open")
		err = emit(events.Error{Message: fmt.Sprintf("ERROR: %v", database.ErrNoConnection)})
	}()

	return s.engine.HandleMessage(ctx, data, emit)
}

func (s *Server) keepAlive(ctx context.Context, conn *websocket.Conn, timeouts *config.TimeoutConfig) {
	ticker := time.NewTicker(timeouts.WebSocketPing)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(timeouts.WebSocketWrite)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Ctx(ctx).Debug().Err(err).Msg("Ping failed")
				return
			}
		}
	}
}

// sessionLogger returns the request logger installed by middleware.Logger, or
// a global one tagged with the remote address when the handler is mounted
// without it.
func sessionLogger(r *http.Request) zerolog.Logger {
	if logger := zerolog.Ctx(r.Context()); logger.GetLevel() != zerolog.Disabled {
		return *logger
	}
	return log.With().Str("remote", r.RemoteAddr).Logger()
}
