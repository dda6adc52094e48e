// Package config defines the application configuration, loaded from the
// environment with github.com/caarlos0/env.
package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files:
//   - database.go: PostgreSQL and Redis configuration
//   - http.go: HTTP server configuration
//   - launcher.go: regional task launcher and webhook configuration
//   - services.go: service mode and monitor scheduler configuration
//   - observability.go: metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging and the like).
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Regional launcher and webhook configuration
	Launcher LauncherConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"http"`

	// Monitor scheduler configuration
	Monitors MonitorConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Launcher.Sanitize()
	c.Monitors.Sanitize()
	c.Observability.Sanitize()
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsSchedulerEnabled returns true if the monitor scheduler service is enabled.
func (c *AppConfig) IsSchedulerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeScheduler]
}
