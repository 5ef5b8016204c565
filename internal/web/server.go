// Package web serves the engine to a single websocket client.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/geoedit/internal/config"
	"github.com/saltyorg/geoedit/internal/engine"
	"github.com/saltyorg/geoedit/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	addr       string
	allowedNet *net.IPNet
	router     *chi.Mux
	upgrader   websocket.Upgrader

	// engineMu serializes all access to the engine and its session
	engineMu sync.Mutex
	engine   *engine.Engine

	clientMu sync.Mutex
	client   *websocket.Conn

	quitOnce sync.Once
	quit     chan struct{}
}

// NewServer creates a new web server
func NewServer(eng *engine.Engine, addr string, allowedNet *net.IPNet) *Server {
	s := &Server{
		addr:       addr,
		allowedNet: allowedNet,
		router:     chi.NewRouter(),
		engine:     eng,
		quit:       make(chan struct{}),
	}
	s.setupRoutes()
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Done is closed once a client has sent a quit request
func (s *Server) Done() <-chan struct{} {
	return s.quit
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimiddleware.RequestID)
	// AllowSubnet must come BEFORE RealIP so we check the actual connection source
	r.Use(middleware.AllowSubnet(s.allowedNet))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get(middleware.HealthPath, s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
}

type healthResponse struct {
	Status       string `json:"status"`
	DatabaseOpen bool   `json:"database_open"`
	Path         string `json:"path,omitempty"`
	ClientActive bool   `json:"client_active"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.engineMu.Lock()
	resp := healthResponse{
		Status:       "ok",
		DatabaseOpen: s.engine.Session().IsOpen(),
		Path:         s.engine.Session().Path(),
	}
	s.engineMu.Unlock()

	s.clientMu.Lock()
	resp.ClientActive = s.client != nil
	s.clientMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Debug().Err(err).Msg("Failed to write health response")
	}
}

func (s *Server) signalQuit() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Start starts the web server. It returns when ctx is cancelled, a client
// quits, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
		// ReadTimeout is for reading request body
		ReadTimeout: 15 * time.Second,
		// WriteTimeout disabled (0) so the websocket can stay open
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
	case <-s.quit:
		log.Info().Msg("Client requested quit; shutting down HTTP server")
	case err := <-errChan:
		return err
	}

	// Hijacked connections are not tracked by Shutdown
	s.disconnectClient()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetTimeouts().ShutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
