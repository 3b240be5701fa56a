package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/newthinker/stockcast/internal/collector"
	"github.com/newthinker/stockcast/internal/collector/csv"
	"github.com/newthinker/stockcast/internal/collector/eastmoney"
	"github.com/newthinker/stockcast/internal/collector/polygon"
	"github.com/newthinker/stockcast/internal/collector/yahoo"
	"github.com/newthinker/stockcast/internal/commentary"
	"github.com/newthinker/stockcast/internal/config"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/llm/factory"
	"github.com/newthinker/stockcast/internal/metrics"
	"github.com/newthinker/stockcast/internal/pipeline"
)

// App wires configuration into a ready pipeline runner
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	collectors *collector.Registry
	metrics    *metrics.Registry
	fetcher    *collector.Fetcher
	runner     *pipeline.Runner
	runnerOpts []pipeline.Option
	llm        string
}

// Option customizes App construction
type Option func(*App)

// WithCollector registers an extra collector before the configured provider is opened
func WithCollector(c collector.Collector) Option {
	return func(a *App) { a.collectors.Register(c) }
}

// WithRunnerOptions passes extra options to the pipeline runner
func WithRunnerOptions(opts ...pipeline.Option) Option {
	return func(a *App) { a.runnerOpts = append(a.runnerOpts, opts...) }
}

// New creates a new App instance from cfg
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	collectors := collector.NewRegistry()
	collectors.Register(yahoo.New())
	collectors.Register(polygon.New())
	collectors.Register(csv.New())
	collectors.Register(eastmoney.New())

	a := &App{
		cfg:        cfg,
		logger:     logger,
		collectors: collectors,
	}
	for _, opt := range opts {
		opt(a)
	}

	c, err := collectors.Open(cfg.Collector.Provider, collector.Config{
		APIKey:  cfg.Collector.APIKey,
		BaseURL: cfg.Collector.BaseURL,
		Timeout: cfg.Collector.Timeout,
		Dir:     cfg.Collector.CSVDir,
	})
	if err != nil {
		return nil, err
	}
	a.fetcher = collector.NewFetcher(c, logger)

	var runnerOpts []pipeline.Option
	if cfg.Metrics.Enabled {
		a.metrics = metrics.NewRegistry()
		runnerOpts = append(runnerOpts, pipeline.WithMetrics(a.metrics))
	}

	if cfg.Commentary.Enabled {
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("commentary: %w", err))
		}
		a.llm = provider.Name()
		runnerOpts = append(runnerOpts, pipeline.WithCommentator(commentary.New(provider, a.metrics, logger, commentary.Config{
			MaxTokens: cfg.Commentary.MaxTokens,
			Timeout:   cfg.Commentary.Timeout,
		})))
	}

	runnerOpts = append(runnerOpts, a.runnerOpts...)
	a.runner = pipeline.NewRunner(a.fetcher, logger, runnerOpts...)

	logger.Info("stockcast ready",
		zap.String("provider", c.Name()),
		zap.Bool("metrics", a.metrics != nil),
		zap.String("commentary", a.llm),
	)
	return a, nil
}

// Run executes one forecast run
func (a *App) Run(ctx context.Context, q core.Query) (*pipeline.Result, error) {
	return a.runner.Run(ctx, q)
}

// Config returns the loaded configuration
func (a *App) Config() *config.Config {
	return a.cfg
}

// Metrics returns the metrics registry, or nil when metrics are disabled
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Provider returns the active data provider name
func (a *App) Provider() string {
	return a.fetcher.Provider()
}

// GetStats returns application statistics
func (a *App) GetStats() map[string]any {
	return map[string]any{
		"provider":   a.Provider(),
		"collectors": a.collectors.Names(),
		"metrics":    a.metrics != nil,
		"commentary": a.llm,
	}
}
