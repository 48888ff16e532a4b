// Package api provides the HTTP REST API server for fundlens.
//
// It exposes the fund catalog, the screener, top-fund rankings, fund
// comparison, investment calculators and per-fund detail endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/datasource"
	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/internal/synthetic"
)

// defaultRequestTimeout applies when api.request_timeout is unset.
const defaultRequestTimeout = 30 * time.Second

// Options carries the collaborators of a Server.
type Options struct {
	Facade    *datasource.Facade
	News      *datasource.News // nil disables fund news
	Synthetic synthetic.Generator
	Logger    zerolog.Logger
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	data   *datasource.Facade
	repo   *repository.Repository
	news   *datasource.News
	synth  synthetic.Generator
	log    zerolog.Logger
	now    func() time.Time
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, opts Options) *Server {
	synth := opts.Synthetic
	if synth == nil {
		synth = synthetic.NewDemo(nil)
	}
	srv := &Server{
		cfg:   cfg,
		data:  opts.Facade,
		repo:  opts.Facade.Local().Repository(),
		news:  opts.News,
		synth: synth,
		log:   opts.Logger.With().Str("component", "api").Logger(),
		now:   time.Now,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	timeout := defaultRequestTimeout
	if s.cfg.API.RequestTimeout > 0 {
		timeout = time.Duration(s.cfg.API.RequestTimeout) * time.Second
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(timeout))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/funds", s.handleListFunds)
		r.Get("/funds/export.csv", s.handleExportFunds)
		r.Route("/funds/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetFund)
			r.Get("/nav-history", s.handleNAVHistory)
			r.Get("/metrics", s.handleFundMetrics)
			r.Get("/profile", s.handleFundProfile)
			r.Get("/news", s.handleFundNews)
		})
		r.Get("/top-funds", s.handleTopFunds)
		r.Get("/amcs", s.handleAMCs)
		r.Get("/compare", s.handleCompare)
		r.Get("/stats", s.handleStats)

		// Preset screens
		r.Get("/screens", s.handleScreens)
		r.Get("/screens/{id}", s.handleRunScreen)

		// Calculators
		r.Get("/calculators/sip", s.handleSIP)
		r.Get("/calculators/lumpsum", s.handleLumpsum)

		// Configuration (read only)
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/keys", s.handleGetConfigKeys)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// writeJSON encodes v before the status is sent, so an unencodable value
// becomes a 500 rather than an empty 2xx.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Message: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Message: msg})
}

// writeFundError maps a fund lookup failure to a response.
func (s *Server) writeFundError(w http.ResponseWriter, err error) {
	if errors.Is(err, datasource.ErrFundNotFound) {
		writeError(w, http.StatusNotFound, "fund not found")
		return
	}
	s.log.Error().Err(err).Msg("fund lookup failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

// intParam reads an optional integer query parameter.
func intParam(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// floatParam reads a required finite number query parameter.
func floatParam(q url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}
