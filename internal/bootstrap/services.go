package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/festivo/notify-api/config"
	"github.com/festivo/notify-api/internal/adapters/gateway"
	redisadapter "github.com/festivo/notify-api/internal/adapters/redis"
	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data"
	"github.com/festivo/notify-api/internal/service"
)

// ServiceDeps holds the shared dependencies for wiring services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient goredis.UniversalClient
	CacheClient goredis.UniversalClient // Optional: separate contact cache Redis
	Logger      *slog.Logger
}

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Jobs     *service.JobService
	Sweep    *service.SweepService
	Sessions *redisadapter.SessionStore
}

// NewServices wires repositories, adapters, and services.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repoCfg := data.RepoConfig{Logger: logger}
	jobRepo := data.NewJobRepo(deps.DB, repoCfg)
	auditRepo := data.NewAuditRepo(deps.DB, repoCfg)
	directory := data.NewGuestDirectory(deps.DB, logger)

	sender := newSender(cfg, logger)

	var cache core.ContactCache
	cacheClient := deps.CacheClient
	if cacheClient == nil {
		cacheClient = deps.RedisClient
	}
	if cacheClient != nil {
		cache = redisadapter.NewContactCache(cacheClient)
	}

	executor, err := service.NewDispatchExecutor(service.DispatchExecutorOptions{
		Repo:        jobRepo,
		Directory:   directory,
		Sender:      sender,
		Audit:       auditRepo,
		Cache:       cache,
		CacheTTL:    cfg.Cache.ContactTTL,
		Parallelism: cfg.Dispatch.Parallelism,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create dispatch executor: %w", err)
	}

	jobs, err := service.NewJobService(service.JobServiceOptions{
		Repo:             jobRepo,
		Directory:        directory,
		Executor:         executor,
		DefaultChunkSize: cfg.Dispatch.ChunkSize,
		DefaultLease:     cfg.Dispatch.Lease,
		Logger:           logger,
		KickFirstAdvance: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create job service: %w", err)
	}

	sweep, err := service.NewSweepService(service.SweepServiceOptions{
		Repo:     jobRepo,
		Advancer: jobs,
		Config:   cfg.Sweep,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create sweep service: %w", err)
	}

	sessions := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, cfg.Session.KeyPrefix)

	return &ServiceContainer{
		Jobs:     jobs,
		Sweep:    sweep,
		Sessions: sessions,
	}, nil
}

// newSender selects the outbound channel. No configured gateway URL selects
// the dev logging sender.
//
//nolint:ireturn // the sender implementation is a runtime choice.
func newSender(cfg *config.AppConfig, logger *slog.Logger) core.MessageSender {
	if cfg.Gateway.BaseURL == "" {
		logger.Warn("no gateway configured, using dev logging sender")
		return gateway.NewDevSender(logger)
	}
	return gateway.NewClient(gateway.Options{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: cfg.Gateway.Timeout,
		Rate:    cfg.Gateway.Rate,
		Burst:   cfg.Gateway.Burst,
		Logger:  logger,
	})
}
