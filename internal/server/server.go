// Package server hosts the HTTP API: document registration, OCR page
// upload, index detection, and entry-to-page matching.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/config"
	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/indexdetect"
	"github.com/Gurmittoor/hyperlinklaw/internal/match"
	"github.com/Gurmittoor/hyperlinklaw/internal/resolver"
	"github.com/Gurmittoor/hyperlinklaw/internal/server/endpoints"
	"github.com/Gurmittoor/hyperlinklaw/internal/similarity"
	"github.com/Gurmittoor/hyperlinklaw/internal/svcctx"
)

// Server is the lawlink HTTP server. The engine services it wires up
// (detector, matcher, batch mapper, resolver) are rebuilt on config
// hot-reload.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	mu       sync.RWMutex
	services *svcctx.Services
	running  bool

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, fmt.Errorf("config manager is required")
	}

	appCfg := cfg.ConfigManager.Get()
	if cfg.Host == "" {
		cfg.Host = appCfg.Server.Host
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = appCfg.Server.Port
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	// The document store survives config reloads; the engine services
	// are rebuilt from the new calibration.
	store := docstore.NewStore(cfg.Logger)
	s.services = s.buildServices(appCfg, store)

	cfg.ConfigManager.OnChange(func(c *config.Config) {
		s.mu.Lock()
		s.services = s.buildServices(c, store)
		s.mu.Unlock()
		cfg.Logger.Info("engine services rebuilt from config")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // batch mapping over large records can run long
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildServices constructs the engine services from configuration.
func (s *Server) buildServices(c *config.Config, store *docstore.Store) *svcctx.Services {
	scorer := similarity.NewScorer(c.Engine.Similarity)
	cache := corpus.NewCache()
	matcher := match.NewMatcher(scorer, cache, c.Engine.Match, s.logger)

	// A disabled resolver gets no key, so it answers needs_review offline.
	apiKey := ""
	if c.Resolver.Enabled {
		apiKey = c.ResolveAPIKey("openai")
	}

	return &svcctx.Services{
		ConfigManager: s.configMgr,
		Store:         store,
		Detector:      indexdetect.NewDetector(c.Engine.Detector, s.logger),
		Matcher:       matcher,
		Batch:         match.NewBatchMapper(matcher, c.Engine.MaxWorkers, s.logger),
		Resolver: resolver.New(resolver.Config{
			APIKey:        apiKey,
			Model:         c.Resolver.Model,
			MinConfidence: c.Resolver.MinConfidence,
			MaxRetries:    c.Resolver.MaxRetries,
		}, s.logger),
		Logger: s.logger,
	}
}

// Start starts the server. It blocks until the context is cancelled or
// an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Services returns the current service set. Exposed for tests.
func (s *Server) Services() *svcctx.Services {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()

		ctx := r.Context()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
