// Package http exposes the billing service as a JSON API.
package http

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"paycycle/internal/log"
	"paycycle/internal/services"
)

type Server struct {
	http.Server
	svc         *services.BillingService
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

// NewServer builds the router and wraps it in an http.Server listening on
// addr.
func NewServer(addr string, svc *services.BillingService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{
		svc:         svc,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger, func(r *http.Request) string { return middleware.GetReqID(r.Context()) }))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(s.securityMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("route not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", s.handleListEntries)
			r.Post("/", s.handleCreateEntry)
			r.Get("/{id}", s.handleGetEntry)
			r.Put("/{id}", s.handleUpdateEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
		})
		r.Get("/summary", s.handleSummary)
		r.Get("/week", s.handleWeek)
		r.Get("/widget", s.handleWidget)
		r.Route("/reminders", func(r chi.Router) {
			r.Get("/next", s.handleNextReminder)
			r.Get("/schedule", s.handleSchedule)
		})
	})

	return r
}

// securityMiddleware rate-limits writes per client, counts suspicious
// requests and sets the usual hardening headers.
func (s *Server) securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqLogger := log.FromContext(ctx)
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.metrics) {
			reqLogger.WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		if r.Method != http.MethodGet {
			if ok, wait := s.rateLimiter.allow(clientIP, s.metrics); !ok {
				reqLogger.WarnContext(ctx, "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				NewJSONResponse().
					Status(http.StatusTooManyRequests).
					Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds())))).
					Data(errorBody{Error: "rate limit exceeded, try again later"}).
					Write(w)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.rateLimiter.stop)
	return s.Server.Shutdown(ctx)
}
