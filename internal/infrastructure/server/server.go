package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/asterix/internal/api/http"
	"github.com/GriffinCanCode/asterix/internal/api/middleware"
	"github.com/GriffinCanCode/asterix/internal/app"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/config"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/asterix/internal/ws"
)

// Server wraps the HTTP front end and the browser core behind it
type Server struct {
	config *config.Config
	core   *app.App
	router *gin.Engine
	http   *http.Server
	tracer *tracing.Tracer
	logger *logging.Logger
}

// NewServer assembles the core and mounts the REST and WebSocket front ends
func NewServer(cfg *config.Config, logger *logging.Logger, opts app.Options) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing asterix server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	core, err := app.New(cfg, logger, opts)
	if err != nil {
		return nil, err
	}

	tracer := tracing.New("asterix", logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(core.Metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(cfg.RateLimit)))
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst))
	}

	handlerOpts := apihttp.Options{
		Metrics:  core.Metrics,
		Gatherer: core.Registry,
	}
	if core.Transport != nil {
		handlerOpts.Breakers = core.Transport.BreakerStates
	}
	apihttp.NewHandlers(core.Runtime, handlerOpts).Register(router)

	router.GET("/stream", ws.NewHandler(core.Runtime, core.Metrics, logger).HandleConnection)

	return &Server{
		config: cfg,
		core:   core,
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		tracer: tracer,
		logger: logger,
	}, nil
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Core returns the browser core behind the server
func (s *Server) Core() *app.App {
	return s.core
}

// BreakerStates reports the transport's per-host circuit breakers
func (s *Server) BreakerStates() map[string]resilience.State {
	if s.core.Transport == nil {
		return nil
	}
	return s.core.Transport.BreakerStates()
}

// Run serves HTTP until Close is called
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close stops the HTTP server, then shuts the core down within ctx
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.core.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("core shutdown: %w", err))
	}
	s.tracer.Close()

	_ = s.logger.Sync()
	return errors.Join(errs...)
}
