package bootstrap

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/feru-app/beacon/config"
	"github.com/feru-app/beacon/internal/adapters/scheduler"
)

// OrchestrationConfig groups dependencies for running the enabled services.
type OrchestrationConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts every enabled service and blocks until a
// termination signal arrives or one of them fails. All services share one
// cancellation; the first error tears the rest down.
func RunServicesWithShutdown(ctx context.Context, cfg *OrchestrationConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		group.Go(func() error {
			return ServeHTTP(groupCtx, &HTTPServerConfig{
				Config:   cfg.Config,
				Services: cfg.Services,
				Logger:   logger,
			})
		})
	}

	if enabled[config.ServiceModeScheduler] {
		runner, runnerErr := scheduler.NewRunner(scheduler.RunnerOptions{
			Monitors:  cfg.Services.Monitors,
			Interval:  cfg.Config.Monitors.Interval,
			BatchSize: cfg.Config.Monitors.BatchSize,
			Logger:    logger,
			Metrics:   cfg.Services.MetricsSink,
		})
		if runnerErr != nil {
			return runnerErr
		}
		group.Go(func() error {
			return runner.Run(groupCtx)
		})
	}

	err = group.Wait()

	if sink := cfg.Services.MetricsSink; sink != nil {
		if closeErr := sink.Close(); closeErr != nil {
			logger.Error("close statsd client failed", "error", closeErr)
		}
	}
	return err
}
