package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/feru-app/beacon/config"
	"github.com/feru-app/beacon/internal/adapters/launcher"
	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/data"
	"github.com/feru-app/beacon/internal/observability/statsd"
	"github.com/feru-app/beacon/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Audits   *service.AuditService
	Webhooks *service.WebhookService
	Monitors *service.MonitorService

	MetricsSink *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the full service graph from shared infrastructure.
func NewServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metricsSink := buildMetricsSink(logger, cfg.Observability)

	auditRepo := data.NewAuditRepo(deps.DB, data.RepoConfig{Logger: logger})
	resultRepo := data.NewResultRepo(deps.DB, data.RepoConfig{Logger: logger})
	monitorRepo := data.NewMonitorRepo(deps.DB, data.RepoConfig{Logger: logger})

	taskLauncher, err := buildLauncher(ctx, cfg.Launcher, logger)
	if err != nil {
		return nil, err
	}

	audits := service.MustNewAuditService(service.AuditServiceOptions{
		Repo:           auditRepo,
		Launcher:       taskLauncher,
		AllowedRegions: cfg.Launcher.Regions,
		LaunchTimeout:  cfg.Launcher.LaunchTimeout,
		Logger:         logger,
		Metrics:        metricsSink,
	})

	extractor, err := service.NewReportExtractor(service.DefaultMetricExpressions())
	if err != nil {
		return nil, fmt.Errorf("build report extractor: %w", err)
	}

	var dedupe core.DeliveryDedupe
	if deps.RedisClient != nil {
		dedupe = data.NewRedisDeliveryDedupe(deps.RedisClient, "")
	}

	webhooks := service.MustNewWebhookService(service.WebhookServiceOptions{
		Results:   resultRepo,
		Jobs:      auditRepo,
		Extractor: extractor,
		Dedupe:    dedupe,
		DedupeTTL: cfg.Launcher.DedupeTTL,
		Logger:    logger,
		Metrics:   metricsSink,
	})

	monitors := service.MustNewMonitorService(service.MonitorServiceOptions{
		Repo:          monitorRepo,
		Audits:        audits,
		FreeTierLimit: cfg.Monitors.FreeTierLimit,
		Logger:        logger,
	})

	return &ServiceContainer{
		Audits:      audits,
		Webhooks:    webhooks,
		Monitors:    monitors,
		MetricsSink: metricsSink,
	}, nil
}

func buildMetricsSink(logger *slog.Logger, cfg config.ObservabilityConfig) *statsd.Client {
	if !cfg.Metrics.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

func buildLauncher(
	ctx context.Context,
	cfg config.LauncherConfig,
	logger *slog.Logger,
) (*launcher.ECSLauncher, error) {
	targets := make(map[string]launcher.RegionTarget, len(cfg.Regions))
	for _, region := range cfg.Regions {
		targets[region] = launcher.RegionTarget{
			Cluster:        cfg.Clusters[region],
			TaskDefinition: cfg.TaskDefinitions[region],
			Subnet:         cfg.Subnets[region],
		}
	}

	ecsLauncher, err := launcher.New(ctx, launcher.Options{
		Regions:       targets,
		ContainerName: cfg.ContainerName,
		CPU:           cfg.CPU,
		Memory:        cfg.Memory,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build ecs launcher: %w", err)
	}
	return ecsLauncher, nil
}
