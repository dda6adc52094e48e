package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeScheduler runs the monitor scheduler loop.
	ServiceModeScheduler ServiceMode = "scheduler"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeScheduler}
}

// ParseServices parses a comma-delimited string of service names and returns
// the enabled services. It validates that all service names are valid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeScheduler:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, scheduler)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}
	return services, nil
}

// MonitorConfig contains monitor scheduler configuration.
type MonitorConfig struct {
	// Interval is the scheduler sweep interval.
	Interval time.Duration `env:"MONITOR_SCHEDULER_INTERVAL" envDefault:"30s"`

	// BatchSize caps how many due monitors one sweep triggers.
	BatchSize int `env:"MONITOR_SCHEDULER_BATCH_SIZE" envDefault:"25"`

	// FreeTierLimit caps monitors per free-tier owner.
	FreeTierLimit int `env:"MONITOR_FREE_TIER_LIMIT" envDefault:"2"`
}

// Sanitize applies guardrails to monitor configuration values.
func (m *MonitorConfig) Sanitize() {
	if m.Interval < time.Second {
		m.Interval = time.Second
	}
	if m.BatchSize < 1 {
		m.BatchSize = 1
	}
	if m.FreeTierLimit < 1 {
		m.FreeTierLimit = 1
	}
}
