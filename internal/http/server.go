// Package http serves the dashboard JSON API: chart data, filter options,
// refresh, export and user-approval administration.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"fleetboard/internal/approval"
	"fleetboard/internal/cache"
	"fleetboard/internal/services"
)

// Publisher notifies downstream consumers that the dataset was rebuilt.
type Publisher interface {
	PublishDatasetRefresh(ctx context.Context, trigger string, counts map[string]int) error
}

// Options wires the server's collaborators.
type Options struct {
	Addr           string
	Aggregator     *services.Aggregator
	Datasets       *services.DatasetStore
	Approvals      approval.Store
	Events         Publisher
	AdminToken     string
	AllowedOrigins []string
}

type Server struct {
	http.Server
	aggregator *services.Aggregator
	datasets   *services.DatasetStore
	approvals  approval.Store
	events     Publisher
	adminToken string

	rateLimiter *rateLimiter
	chartCache  *cache.LRUCache[cachedChart]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		aggregator:       opts.Aggregator,
		datasets:         opts.Datasets,
		approvals:        opts.Approvals,
		events:           opts.Events,
		adminToken:       opts.AdminToken,
		rateLimiter:      newRateLimiter(),
		chartCache:       cache.NewLRUCache[cachedChart](200, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/sheets", s.withRequestContext(s.handleSheets))
	mux.HandleFunc("GET /api/dashboard", s.withRequestContext(s.handleDashboard))
	mux.HandleFunc("GET /api/zones", s.withRequestContext(s.handleZones))
	mux.HandleFunc("GET /api/dates", s.withRequestContext(s.handleDates))
	mux.HandleFunc("GET /api/export.xlsx", s.withRequestContext(s.handleExport))
	mux.HandleFunc("POST /api/refresh", s.withRequestContext(s.handleRefresh))

	mux.HandleFunc("POST /api/admin/users", s.withRequestContext(s.withAdmin(s.handleCreateUser)))
	mux.HandleFunc("GET /api/admin/users", s.withRequestContext(s.withAdmin(s.handleListUsers)))
	mux.HandleFunc("GET /api/admin/users/{id}", s.withRequestContext(s.withAdmin(s.handleGetUser)))
	mux.HandleFunc("POST /api/admin/users/{id}/approve", s.withRequestContext(s.withAdmin(s.handleApproveUser)))
	mux.HandleFunc("POST /api/admin/users/{id}/role", s.withRequestContext(s.withAdmin(s.handleSetRole)))
	mux.HandleFunc("DELETE /api/admin/users/{id}", s.withRequestContext(s.withAdmin(s.handleDeleteUser)))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Admin-Token"},
	})

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: corsMiddleware.Handler(mux),
	}
	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.chartCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Chart cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// InvalidateCharts drops every cached chart. Must be called whenever the
// dataset behind them is replaced from outside the HTTP handlers.
func (s *Server) InvalidateCharts() {
	s.chartCache.Purge()
}

// Shutdown stops the server along with its cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestContext adds a request ID, request logging, rate limiting of
// mutating requests, and baseline security headers.
func (s *Server) withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// withAdmin gates a handler behind the admin token. An empty configured
// token disables the admin API entirely.
func (s *Server) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			writeError(w, http.StatusForbidden, "admin API is disabled")
			return
		}
		if r.Header.Get("X-Admin-Token") != s.adminToken {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next(w, r)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	ds, _ := s.datasets.Snapshot()
	if len(ds) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no dataset loaded"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
