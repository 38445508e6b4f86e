// Package api serves generated reports and cache statistics over HTTP
// for local browsing.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gh-pr-stats/internal/api/middleware"
	"gh-pr-stats/internal/cache"
	"gh-pr-stats/internal/pkg/logger"
)

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StatsProvider supplies cache counters; nil result means the cache is
// disabled for this run.
type StatsProvider func() *cache.Snapshot

type HTTPServer struct {
	server *http.Server
	config *ServerConfig
	logger *logger.Logger
}

func NewHTTPServer(config *ServerConfig, reportsDir string, stats StatsProvider, logger *logger.Logger) *HTTPServer {
	router := setupRouter(reportsDir, stats, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &HTTPServer{
		server: server,
		config: config,
		logger: logger.Component("http"),
	}
}

func (s *HTTPServer) Start(_ context.Context) error {
	s.logger.Info("starting report server", "addr", s.server.Addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("report server failed", "error", err)
		}
	}()

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping report server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("report server shutdown failed", "error", err)
		return err
	}

	s.logger.Info("report server stopped")
	return nil
}

func setupRouter(reportsDir string, stats StatsProvider, logger *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})

	r.Get("/cache/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		snapshot := stats()
		if snapshot == nil {
			w.WriteHeader(http.StatusNotFound)
			if _, err := w.Write([]byte(`{"error":"cache disabled"}`)); err != nil {
				logger.Warn("failed to write cache stats response", "error", err)
			}
			return
		}

		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			logger.Warn("failed to write cache stats response", "error", err)
		}
	})

	fileServer := http.StripPrefix("/reports/", http.FileServer(http.Dir(reportsDir)))
	r.Get("/reports/*", fileServer.ServeHTTP)

	return r
}
