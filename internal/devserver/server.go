// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package devserver is a small in-memory search backend speaking the
// /query and /upload contracts, for local use and end-to-end tests.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/pdiddy/glooble/internal/logging"
	"github.com/pdiddy/glooble/pkg/types"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:5000"

	// DefaultMaxEditDistance bounds spelling corrections.
	DefaultMaxEditDistance = 2

	// queryCacheTTL bounds how long a query response is reused. Uploads
	// flush the cache.
	queryCacheTTL = time.Minute

	shutdownTimeout = 5 * time.Second
)

// Server serves a Corpus over HTTP.
type Server struct {
	corpus  *Corpus
	cfg     types.DevServerConfig
	logger  *zap.Logger
	queries *cache.Cache
	handler http.Handler
}

// New creates a server over corpus. Zero config fields take defaults.
func New(corpus *Corpus, cfg types.DevServerConfig, logger *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxEditDistance <= 0 {
		cfg.MaxEditDistance = DefaultMaxEditDistance
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		corpus:  corpus,
		cfg:     cfg,
		logger:  logging.OrNop(logger),
		queries: cache.New(queryCacheTTL, 2*queryCacheTTL),
	}

	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "User-Agent"},
		MaxAge:         300,
	}).Handler)
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Post("/query", s.handleQuery)
	r.Post("/upload", s.handleUpload)
	r.Get("/health", s.handleHealth)
	s.handler = r
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.handler }

// Start listens on the configured address and blocks until ctx is done or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting dev server",
			zap.String("addr", s.cfg.Addr),
			zap.Int("documents", s.corpus.Len()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
