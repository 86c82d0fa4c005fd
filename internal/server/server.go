// Package server exposes the query engine over a small read-only HTTP API
// and keeps the serving snapshot fresh as new datasets are published.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"promptdex/internal/logging"
	"promptdex/internal/query"
)

// Server hosts the HTTP API.
type Server struct {
	bind   string
	engine *query.Engine
	logger *slog.Logger

	httpServer *http.Server
	watcher    *datasetWatcher
}

// New builds a server bound to addr, serving the given engine.
func New(addr string, engine *query.Engine, datasetDir string, logger *slog.Logger) *Server {
	log := logging.WithComponent(logger, "server")
	s := &Server{
		bind:    addr,
		engine:  engine,
		logger:  log,
		watcher: newDatasetWatcher(datasetDir, engine, log),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/random", s.handleRandom)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/healthz", s.handleHealthz)
	return mux
}

// Start begins serving and watching for dataset publishes. It returns once
// the listener is bound; request handling continues in the background.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return err
	}
	if err := s.watcher.start(ctx); err != nil {
		s.logger.Warn("dataset watcher unavailable, reload on publish disabled", logging.Error(err))
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", logging.Error(err))
		}
	}()
	s.logger.Info("api listening", logging.String("addr", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.watcher.stop()
	return s.httpServer.Shutdown(ctx)
}
