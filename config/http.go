package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// ReadHeaderTimeout limits how long the server waits for request headers.
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.ReadHeaderTimeout < time.Second {
		h.ReadHeaderTimeout = time.Second
	}
	if h.ShutdownTimeout < time.Second {
		h.ShutdownTimeout = time.Second
	}
}

// SessionConfig contains session lookup configuration. Sessions are issued
// by the surrounding platform and stored in Redis; this service only reads
// and validates them.
type SessionConfig struct {
	// CookieName is the session cookie checked when no bearer token is present.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"festivo_session"`

	// KeyPrefix is the Redis key prefix for session records.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"session:"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.CookieName == "" {
		s.CookieName = "festivo_session"
	}
	if s.KeyPrefix == "" {
		s.KeyPrefix = "session:"
	}
}
