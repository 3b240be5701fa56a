// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/newthinker/stockcast/internal/api/handler/api"
	"github.com/newthinker/stockcast/internal/api/handler/web"
	"github.com/newthinker/stockcast/internal/api/request"
	"github.com/newthinker/stockcast/internal/api/response"
	"github.com/newthinker/stockcast/internal/app"
	"github.com/newthinker/stockcast/internal/metrics"
)

// Server represents the HTTP server for the forecast dashboard
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	router     *mux.Router
	app        *app.App
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	TemplatesDir string
	MetricsPath  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, a *app.App, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	router := mux.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		router: router,
		app:    a,
	}

	if err := s.setupRoutes(cfg); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) error {
	fc := s.app.Config().Forecast
	start, err := fc.Start()
	if err != nil {
		return fmt.Errorf("parsing default start: %w", err)
	}
	defaults := request.Defaults{
		Ticker:  fc.DefaultTicker,
		Start:   start,
		Horizon: fc.DefaultHorizon,
	}

	s.router.Use(metrics.LoggingMiddleware(s.logger))
	if reg := s.app.Metrics(); reg != nil {
		s.router.Use(metrics.HTTPMiddleware(reg))
		s.router.Handle(cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Web UI routes
	webHandler, err := web.NewHandler(cfg.TemplatesDir, s.app, defaults, s.logger)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}
	s.router.HandleFunc("/", webHandler.Dashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/forecast", webHandler.Forecast).Methods(http.MethodGet)

	// JSON API
	forecastHandler := apihandler.NewForecastHandler(s.app, defaults)
	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/forecast", forecastHandler.Get).Methods(http.MethodGet)

	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	return nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.app.GetStats()
	stats["status"] = "ok"
	response.JSON(w, http.StatusOK, stats)
}
