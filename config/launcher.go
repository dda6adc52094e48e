package config

import (
	"fmt"
	"strings"
	"time"
)

// LauncherConfig contains regional task launcher and webhook configuration.
//
// The per-region maps use the env library's map syntax, e.g.
//
//	LAUNCHER_CLUSTERS=us-east-1:beacon-prod,eu-west-1:beacon-prod-eu
type LauncherConfig struct {
	// Regions lists the region codes audits may target, in no particular order.
	Regions []string `env:"LAUNCHER_REGIONS" envDefault:"us-east-1"`

	// Clusters, TaskDefinitions, and Subnets map each region to its launch target.
	Clusters        map[string]string `env:"LAUNCHER_CLUSTERS"`
	TaskDefinitions map[string]string `env:"LAUNCHER_TASK_DEFINITIONS"`
	Subnets         map[string]string `env:"LAUNCHER_SUBNETS"`

	// ContainerName is the runner container receiving env overrides.
	ContainerName string `env:"LAUNCHER_CONTAINER_NAME" envDefault:"runner"`

	// CPU and Memory are the per-task resource overrides (ECS units / MiB).
	CPU    int32 `env:"LAUNCHER_CPU"    envDefault:"1024"`
	Memory int32 `env:"LAUNCHER_MEMORY" envDefault:"2048"`

	// LaunchTimeout bounds each regional RunTask call.
	LaunchTimeout time.Duration `env:"LAUNCHER_TIMEOUT" envDefault:"30s"`

	// WebhookSecret is the shared secret runners echo back on result webhooks.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// DedupeTTL is how long applied terminal deliveries are remembered.
	DedupeTTL time.Duration `env:"WEBHOOK_DEDUPE_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to launcher configuration values.
func (l *LauncherConfig) Sanitize() {
	regions := make([]string, 0, len(l.Regions))
	for _, region := range l.Regions {
		if trimmed := strings.TrimSpace(region); trimmed != "" {
			regions = append(regions, trimmed)
		}
	}
	l.Regions = regions

	if l.LaunchTimeout < time.Second {
		l.LaunchTimeout = time.Second
	}
	if l.CPU <= 0 {
		l.CPU = 1024
	}
	if l.Memory <= 0 {
		l.Memory = 2048
	}
	if l.DedupeTTL <= 0 {
		l.DedupeTTL = 24 * time.Hour
	}
}

// Validate checks that every configured region has a complete launch target.
func (l *LauncherConfig) Validate() error {
	if len(l.Regions) == 0 {
		return fmt.Errorf("at least one launcher region is required")
	}
	for _, region := range l.Regions {
		if l.Clusters[region] == "" {
			return fmt.Errorf("missing cluster for region %s", region)
		}
		if l.TaskDefinitions[region] == "" {
			return fmt.Errorf("missing task definition for region %s", region)
		}
		if l.Subnets[region] == "" {
			return fmt.Errorf("missing subnet for region %s", region)
		}
	}
	return nil
}
