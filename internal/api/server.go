// Package api provides the HTTP API server implementation for chatbridge.
// It exposes the translator engine over Gin routes for converting and detecting
// chat request and response payloads, plus health and metrics endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/chatbridge/chatbridge/internal/api/handlers"
	"github.com/chatbridge/chatbridge/internal/api/middleware"
	"github.com/chatbridge/chatbridge/internal/buildinfo"
	"github.com/chatbridge/chatbridge/internal/config"
	"github.com/chatbridge/chatbridge/internal/logging"
	"github.com/chatbridge/chatbridge/internal/metrics"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/chatbridge/chatbridge/sdk/translator/builtin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ServerOption customises HTTP server construction.
type ServerOption func(*serverOptionConfig)

type serverOptionConfig struct {
	extraMiddleware    []gin.HandlerFunc
	engineConfigurator func(*gin.Engine)
	conversionLogger   logging.ConversionLogger
	maxBodyBytes       int64
}

// WithMiddleware appends additional Gin middleware during server construction.
func WithMiddleware(mw ...gin.HandlerFunc) ServerOption {
	return func(cfg *serverOptionConfig) {
		cfg.extraMiddleware = append(cfg.extraMiddleware, mw...)
	}
}

// WithEngineConfigurator allows callers to mutate the Gin engine after the default routes are registered.
func WithEngineConfigurator(fn func(*gin.Engine)) ServerOption {
	return func(cfg *serverOptionConfig) {
		cfg.engineConfigurator = fn
	}
}

// WithConversionLogger overrides the conversion logger built from configuration.
func WithConversionLogger(logger logging.ConversionLogger) ServerOption {
	return func(cfg *serverOptionConfig) {
		cfg.conversionLogger = logger
	}
}

// WithMaxBodyBytes limits the decoded size of request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(cfg *serverOptionConfig) {
		cfg.maxBodyBytes = n
	}
}

// Server represents the main API server.
type Server struct {
	// engine is the Gin web framework engine instance.
	engine *gin.Engine

	// server is the underlying HTTP server.
	server *http.Server

	// cfg holds the current server configuration.
	cfg *config.Config

	// handler serves the conversion routes and owns the active pipeline.
	handler *handlers.ConvertHandler

	// conversionLogger writes per-conversion log files when enabled.
	conversionLogger logging.ConversionLogger

	// metrics collects conversion and HTTP counters.
	metrics *metrics.Metrics
}

// NewServer creates and initializes a new API server over the pipeline. The
// pipeline is instrumented with the server's metrics; nil uses the built-in pairs.
func NewServer(cfg *config.Config, pipeline *sdktranslator.Pipeline, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if pipeline == nil {
		pipeline = builtin.Pipeline(cfg.Conversion.EngineOptions()...)
	}
	optionState := &serverOptionConfig{}
	for _, opt := range opts {
		opt(optionState)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	m.Instrument(pipeline)

	convLogger := optionState.conversionLogger
	if convLogger == nil {
		convLogger = logging.NewFileConversionLogger(cfg.RequestLog, logging.ResolveLogDirectory(cfg), cfg.RequestLogMaxFiles)
	}

	engine := gin.New()
	engine.Use(logging.GinLogrusLogger())
	engine.Use(logging.GinLogrusRecovery())
	engine.Use(middleware.HTTPMetrics(m))
	engine.Use(middleware.DecodeRequestBody(optionState.maxBodyBytes))
	for _, mw := range optionState.extraMiddleware {
		engine.Use(mw)
	}

	s := &Server{
		engine:           engine,
		cfg:              cfg,
		handler:          handlers.NewConvertHandler(pipeline, convLogger, cfg.Debug),
		conversionLogger: convLogger,
		metrics:          m,
	}
	s.setupRoutes(s.handler)
	if optionState.engineConfigurator != nil {
		optionState.engineConfigurator(engine)
	}

	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupRoutes configures the API routes for the server.
func (s *Server) setupRoutes(h *handlers.ConvertHandler) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		logging.SkipGinRequestLogging(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": buildinfo.Version})
	})
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.engine.Group("/v1")
	{
		v1.GET("/pairs", h.Pairs)
		v1.POST("/detect", h.Detect)
		v1.POST("/convert/request", h.ConvertRequest)
		v1.POST("/convert/response", h.ConvertResponse)
		v1.POST("/convert/batch", h.Batch)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		handlers.WriteError(c, http.StatusNotFound, fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path))
	})
}

// UpdateConfig applies a reloaded configuration. The conversion settings take
// effect through a freshly built pipeline over the built-in pairs, which replaces
// any pipeline passed to NewServer. Listen address changes need a restart.
func (s *Server) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	pipeline := builtin.Pipeline(cfg.Conversion.EngineOptions()...)
	s.metrics.Instrument(pipeline)
	s.handler.SetPipeline(pipeline)
	s.handler.SetLogBodies(cfg.Debug)

	if fileLogger, ok := s.conversionLogger.(*logging.FileConversionLogger); ok {
		fileLogger.SetEnabled(cfg.RequestLog)
		fileLogger.SetMaxFiles(cfg.RequestLogMaxFiles)
	}
	s.cfg = cfg
	log.Debug("conversion pipeline rebuilt from reloaded configuration")
}

// Pipeline returns the pipeline currently serving conversions.
func (s *Server) Pipeline() *sdktranslator.Pipeline {
	return s.handler.Pipeline()
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start begins listening for and serving HTTP requests. It blocks until the
// server stops; a graceful shutdown returns nil.
func (s *Server) Start() error {
	if s == nil || s.server == nil {
		return fmt.Errorf("failed to start HTTP server: server not initialized")
	}
	log.Infof("starting chatbridge server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	log.Debug("Stopping API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	log.Debug("API server stopped")
	return nil
}
