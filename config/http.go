package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://api.feru.app").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// MaxConns caps concurrent connections accepted by the listener.
	// Zero disables the cap.
	MaxConns int `env:"HTTP_MAX_CONNS" envDefault:"0"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.MaxConns < 0 {
		h.MaxConns = 0
	}
}
