package config

import "time"

// DispatchConfig contains chunked dispatch configuration.
type DispatchConfig struct {
	// ChunkSize is the maximum number of recipient entries claimed per
	// advance invocation.
	ChunkSize int `env:"DISPATCH_CHUNK_SIZE" envDefault:"25"`

	// Lease is how long a claimed entry remains owned by the claiming
	// invocation. Entries still claimed past this window are treated as
	// abandoned and become claimable again.
	Lease time.Duration `env:"DISPATCH_LEASE" envDefault:"2m"`

	// Parallelism is the number of concurrent sends per chunk.
	Parallelism int `env:"DISPATCH_PARALLELISM" envDefault:"4"`
}

// Sanitize applies guardrails to dispatch configuration values.
// The lease must comfortably cover a full chunk of sends at the gateway
// timeout, otherwise healthy in-flight work would be reclaimed mid-send.
func (d *DispatchConfig) Sanitize() {
	if d.ChunkSize < 1 {
		d.ChunkSize = 1
	}
	if d.ChunkSize > 500 {
		d.ChunkSize = 500
	}
	if d.Parallelism < 1 {
		d.Parallelism = 1
	}
	if d.Parallelism > d.ChunkSize {
		d.Parallelism = d.ChunkSize
	}
	if d.Lease < 10*time.Second {
		d.Lease = 10 * time.Second
	}
}

// MinLeaseFor returns the smallest safe lease for the configured chunk
// size given the gateway request timeout.
func (d *DispatchConfig) MinLeaseFor(gatewayTimeout time.Duration) time.Duration {
	perWave := (d.ChunkSize + d.Parallelism - 1) / d.Parallelism
	return time.Duration(perWave) * gatewayTimeout
}

// GatewayConfig contains SMS gateway client configuration.
type GatewayConfig struct {
	// BaseURL is the gateway endpoint. Empty selects the dev logging sender.
	BaseURL string `env:"GATEWAY_BASE_URL" envDefault:""`

	// APIKey authenticates requests to the gateway.
	APIKey string `env:"GATEWAY_API_KEY" envDefault:""`

	// Timeout bounds a single send request.
	Timeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"5s"`

	// Rate is the sustained request rate limit (requests per second).
	Rate float64 `env:"GATEWAY_RATE" envDefault:"10"`

	// Burst is the rate limiter burst size.
	Burst int `env:"GATEWAY_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to gateway configuration values.
func (g *GatewayConfig) Sanitize() {
	if g.Timeout < time.Second {
		g.Timeout = time.Second
	}
	if g.Rate <= 0 {
		g.Rate = 1
	}
	if g.Burst < 1 {
		g.Burst = 1
	}
}

// SweepConfig contains periodic sweep configuration.
type SweepConfig struct {
	// Cron is the sweep schedule in robfig/cron syntax.
	Cron string `env:"SWEEP_CRON" envDefault:"@every 1m"`

	// Budget bounds how long a single sweep pass may run.
	Budget time.Duration `env:"SWEEP_BUDGET" envDefault:"8s"`

	// MaxJobs caps how many active jobs one sweep pass will touch.
	MaxJobs int `env:"SWEEP_MAX_JOBS" envDefault:"50"`

	// Secret authenticates POST /api/internal/sweep. Empty disables the endpoint.
	Secret string `env:"SWEEP_SECRET" envDefault:""`
}

// Sanitize applies guardrails to sweep configuration values.
func (s *SweepConfig) Sanitize() {
	if s.Cron == "" {
		s.Cron = "@every 1m"
	}
	if s.Budget < time.Second {
		s.Budget = time.Second
	}
	if s.MaxJobs < 1 {
		s.MaxJobs = 1
	}
}
