// Package web provides the HTTP API for the estimation service: batch
// estimate runs, rate configuration, the material catalog, and CSV export.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/restoration-tools/drycost/internal/config"
	"github.com/restoration-tools/drycost/internal/estimate"
	"github.com/restoration-tools/drycost/internal/web/middleware"
)

// Server is the HTTP server for the estimation API. The engine itself is
// stateless; the server owns the two pieces of shared state around it, the
// rate store and the immutable material library.
type Server struct {
	cfg     *config.Config
	rates   *RateStore
	library *estimate.MaterialLibrary
	runs    *runLimiter
	metrics *metrics
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server around a material library and the default
// rate configuration.
func NewServer(cfg *config.Config, library *estimate.MaterialLibrary) *Server {
	s := &Server{
		cfg:     cfg,
		rates:   NewRateStore(estimate.DefaultRates()),
		library: library,
		runs:    newRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.WaitTimeout),
		router:  chi.NewRouter(),
	}
	if cfg.Metrics.Enabled {
		s.metrics = newMetrics()
		s.metrics.trackRuns(s.runs.activeRuns)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)

	if s.metrics != nil {
		s.router.Use(s.metrics.instrument)
	}

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	if s.metrics != nil {
		s.router.Get("/metrics", s.metrics.handler().ServeHTTP)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.JWTAuth(s.cfg.Auth))

		r.Get("/materials", s.handleListMaterials)

		r.Get("/rates", s.handleGetRates)
		r.Put("/rates", s.handlePutRates)

		// Estimate runs are heavier than the rest of the API: a tighter
		// per-IP budget plus a global cap on parallel runs.
		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				limiter := newRateLimiter(s.cfg.Rate.EstimateLimit, time.Minute)
				r.Use(limiter.middleware)
			}
			r.Use(s.runs.middleware)
			r.Post("/estimates", s.handleEstimates)
			r.Post("/estimates/export", s.handleEstimatesExport)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1,
			lastReset: time.Now(),
		}
		return true
	}

	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
