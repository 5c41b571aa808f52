// Package app assembles the scanner from configuration: logger, fetch
// strategies, executor, and batch runner, with a single Close for teardown.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/osintkit/handlescan/internal/config"
	"github.com/osintkit/handlescan/internal/fetcher/headless"
	"github.com/osintkit/handlescan/internal/fetcher/httpfetch"
	"github.com/osintkit/handlescan/internal/logging"
	"github.com/osintkit/handlescan/internal/probe"
	"github.com/osintkit/handlescan/internal/progress"
)

// Shell DOM smaller than this is a strong hint the page renders client-side.
const renderHintMinBytes = 2048

// App owns the wired scanner components for one process.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Runner *probe.Runner

	rendered *headless.Fetcher
}

// New loads configuration and wires the scanner. Call Close when done.
func New(cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	lightweight := httpfetch.New(httpfetch.Config{
		UserAgent: cfg.Scanner.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	})

	var (
		renderedFetcher probe.Fetcher
		rendered        *headless.Fetcher
	)
	if cfg.Headless.Enabled {
		rendered, err = headless.New(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Scanner.UserAgent,
			NavigationTimeout: cfg.NavTimeout(),
			SettleDelay:       cfg.SettleDelay(),
		})
		if err != nil {
			return nil, fmt.Errorf("init headless fetcher: %w", err)
		}
		renderedFetcher = rendered
	} else {
		logger.Warn("headless disabled; rendered sites will report errors")
		renderedFetcher = headless.NewNoop()
	}

	detector := probe.NewRenderHintDetector(renderHintMinBytes, nil, nil)
	executor, err := probe.NewExecutor(lightweight, renderedFetcher, detector, logger)
	if err != nil {
		return nil, fmt.Errorf("init executor: %w", err)
	}

	runner, err := probe.NewRunner(
		executor,
		progress.NewLogSink(logger),
		probe.RunnerConfig{
			Delay:             cfg.Delay(),
			HandleConcurrency: cfg.Scanner.Concurrency,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("init runner: %w", err)
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Runner:   runner,
		rendered: rendered,
	}, nil
}

// Close releases the headless allocator and flushes logs.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.rendered != nil {
		a.rendered.Close()
	}
	_ = a.Logger.Sync()
}
