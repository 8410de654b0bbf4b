// Package web provides the HTTP API for the club registry: member,
// coach, course and attendance CRUD, the bulk member import endpoint
// and the dashboard summary.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/avenard/clubregistry/internal/config"
	"github.com/avenard/clubregistry/internal/ingest"
	"github.com/avenard/clubregistry/internal/metrics"
	"github.com/avenard/clubregistry/internal/repository"
	"github.com/avenard/clubregistry/internal/web/middleware"
)

// Deps bundles what the handlers need.
type Deps struct {
	Members    repository.MemberRepository
	Coaches    repository.CoachRepository
	Courses    repository.CourseRepository
	Attendance repository.AttendanceRepository
	Importer   *ingest.Importer
	Metrics    *metrics.Metrics
}

// Server is the HTTP server for the registry API.
type Server struct {
	cfg    *config.Config
	deps   Deps
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		router: chi.NewRouter(),
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

	// Security hardening
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}

	if s.deps.Metrics != nil {
		s.router.Use(middleware.Instrument(s.deps.Metrics))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	if s.deps.Metrics != nil {
		s.router.Handle("/metrics", s.deps.Metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(&s.cfg.Security))

		// Members
		r.Get("/members", s.handleListMembers)
		r.Post("/members", s.handleCreateMember)
		r.Get("/members/{id}", s.handleGetMember)
		r.Put("/members/{id}", s.handleUpdateMember)
		r.Delete("/members/{id}", s.handleDeleteMember)

		// Bulk member import
		r.Post("/imports/members", s.handleImportMembers)

		// Coaches
		r.Get("/coaches", s.handleListCoaches)
		r.Post("/coaches", s.handleCreateCoach)
		r.Get("/coaches/{id}", s.handleGetCoach)
		r.Put("/coaches/{id}", s.handleUpdateCoach)
		r.Delete("/coaches/{id}", s.handleDeleteCoach)

		// Weekly course calendar
		r.Get("/courses", s.handleListCourses)
		r.Post("/courses", s.handleCreateCourse)
		r.Get("/courses/{id}", s.handleGetCourse)
		r.Put("/courses/{id}", s.handleUpdateCourse)
		r.Delete("/courses/{id}", s.handleDeleteCourse)
		r.Get("/courses/{id}/attendance", s.handleListAttendance)

		// Attendance sheets
		r.Post("/attendance", s.handleCreateAttendance)
		r.Get("/attendance/{id}", s.handleGetAttendance)
		r.Put("/attendance/{id}", s.handleUpdateAttendance)
		r.Delete("/attendance/{id}", s.handleDeleteAttendance)

		// Dashboard summary
		r.Get("/dashboard", s.handleDashboard)
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

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// JSON API only, no resource loading at all
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	// Start cleanup goroutine
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
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	// Check if we have tokens left
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
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
