package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"festivo"`
	Password string `env:"PASSWORD" envDefault:"festivo"`
	Name     string `env:"NAME"     envDefault:"festivo"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for session lookups.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// CacheConfig contains contact cache configuration (Redis-based).
type CacheConfig struct {
	// Redis connection settings for the contact cache. Defaults to the
	// session Redis when left empty.
	RedisAddr     string `env:"CACHE_REDIS_ADDR"     envDefault:""`
	RedisPassword string `env:"CACHE_REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"CACHE_REDIS_DB"       envDefault:"1"`

	// ContactTTL is the TTL for cached guest contact details.
	ContactTTL time.Duration `env:"CACHE_CONTACT_TTL" envDefault:"10m"`
}
