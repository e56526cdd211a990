package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jordan/restaurant-collector/internal/config"
	"github.com/jordan/restaurant-collector/internal/logger"
	"github.com/jordan/restaurant-collector/internal/pipeline"
	"github.com/jordan/restaurant-collector/internal/relay"
	"github.com/jordan/restaurant-collector/internal/seen"
	"github.com/jordan/restaurant-collector/internal/server/middleware"
	"github.com/jordan/restaurant-collector/internal/server/ratelimit"
	"github.com/jordan/restaurant-collector/internal/store"
	"github.com/jordan/restaurant-collector/internal/telemetry"
	"github.com/jordan/restaurant-collector/internal/yelp"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	collector   *pipeline.Collector
	cache       *seen.Cache
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	log         *zap.SugaredLogger
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	st, err := store.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		store: st,
		log:   logger.GetLogger("server"),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// The purge endpoint requires operator tokens, so the JWT secret is
	// mandatory for serving.
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.cache = seen.New(cfg.SeenMaxEntries, cfg.SeenTTL())

	client := yelp.NewClient(cfg.APIKey, &yelp.Options{Limit: cfg.Limit})

	var notifier pipeline.Notifier
	if cfg.RelayURL != "" {
		notifier = relay.NewWebhook(cfg.RelayURL, nil)
	}

	s.collector = pipeline.New(client, st, s.cache, pipeline.Options{
		Notifier: notifier,
		Logger:   s.log,
	})

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /collect", s.handleCollect)
	mux.HandleFunc("POST /collect/stream", s.handleCollectStream)
	mux.HandleFunc("GET /restaurants", s.handleListRestaurants)
	mux.HandleFunc("GET /restaurants/{yelp_id}", s.handleGetRestaurant)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", telemetry.Handler())

	// Purging the table is destructive and requires an operator token.
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("DELETE /restaurants", requireAuth(http.HandlerFunc(s.handleDeleteRestaurants)))

	corsHandler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(corsHandler.Handler(telemetry.Middleware(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for streamed collection passes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Collector exposes the collection pipeline so a scheduler can share the
// server's seen cache and store connection.
func (s *Server) Collector() *pipeline.Collector {
	return s.collector
}

// Start begins listening for requests. It blocks until ctx is cancelled or an
// interrupt arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("Server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Infow("Shutting down server", "reason", "signal")
	case <-ctx.Done():
		s.log.Infow("Shutting down server", "reason", "context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.cache != nil {
		s.cache.Stop()
	}
	s.store.Close()
	s.log.Infow("Server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Infow("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorw("Failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; a trusted-proxy aware
// X-Forwarded-For lookup could replace it behind a load balancer.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds())))
	}

	s.log.Warnw("Rate limit exceeded",
		"limit", info.Limit,
		"remaining", info.Remaining,
		"reset", info.ResetTime.Format(time.RFC3339),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
