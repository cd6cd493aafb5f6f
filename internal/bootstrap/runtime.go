// Package bootstrap wires configuration, logging, tracing, storage and cache
// for the command-line tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"socialschema/internal/cache"
	"socialschema/internal/config"
	"socialschema/internal/database"
	"socialschema/internal/observability"
	"socialschema/internal/repository"
	"socialschema/internal/schema"
	"socialschema/internal/service"

	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Service names the command in logs and traces.
	Service string
	// Database opens the configured store. Tools that only need the schema leave it off.
	Database bool
	// SkipAutoMigrate leaves the layout alone even when DB_AUTO_MIGRATE is set.
	SkipAutoMigrate bool
	// Cache connects to REDIS_URL when configured.
	Cache bool
}

// Runtime holds everything a command needs. Fields not requested in Options are nil.
type Runtime struct {
	Config   *config.Config
	Registry *schema.Registry
	DB       *gorm.DB
	Cache    *cache.Cache

	shutdownTracing func(context.Context) error
}

// Init loads configuration, replaces the global logger, starts tracing and
// opens the requested resources. The returned context carries a fresh
// correlation ID so every log line of one run can be grouped.
func Init(ctx context.Context, opts Options) (*Runtime, context.Context, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, ctx, fmt.Errorf("load config: %w", err)
	}

	observability.InitLogger(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	ctx = observability.WithCorrelationID(ctx, observability.NewCorrelationID())

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Service:  opts.Service,
		Env:      cfg.Env,
		Enabled:  cfg.TracingEnabled,
		Exporter: cfg.TracingExporter,
		Endpoint: cfg.OTLPEndpoint,
		Ratio:    cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, ctx, fmt.Errorf("init tracing: %w", err)
	}

	rt := &Runtime{Config: cfg, shutdownTracing: shutdown}

	rt.Registry, err = schema.New()
	if err != nil {
		_ = rt.Close(ctx)
		return nil, ctx, fmt.Errorf("build schema registry: %w", err)
	}

	if opts.Database {
		dbCfg := *cfg
		if opts.SkipAutoMigrate {
			dbCfg.DBAutoMigrate = false
		}
		rt.DB, err = database.Connect(&dbCfg, rt.Registry)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, ctx, fmt.Errorf("database connection failed: %w", err)
		}
	}

	if opts.Cache {
		// may result in a disabled cache if Redis is unreachable
		rt.Cache = cache.New(ctx, cfg.RedisURL)
	}

	observability.Logger.DebugContext(ctx, "Runtime initialized",
		slog.String("service", opts.Service),
		slog.String("env", cfg.Env),
		slog.Bool("database", rt.DB != nil),
		slog.Bool("cache", rt.Cache.Enabled()),
	)
	return rt, ctx, nil
}

// Repositories returns the repository set bound to the runtime's database.
func (rt *Runtime) Repositories() service.SocialRepositories {
	return service.SocialRepositories{
		Users: repository.NewUserRepository(rt.DB, repository.UserOptions{
			Cache:        rt.Cache,
			CacheTTL:     time.Duration(rt.Config.CacheUserTTLSeconds) * time.Second,
			DeletePolicy: rt.Config.UserDeletePolicy,
		}),
		Posts:     repository.NewPostRepository(rt.DB),
		Comments:  repository.NewCommentRepository(rt.DB),
		Likes:     repository.NewLikeRepository(rt.DB),
		Followers: repository.NewFollowerRepository(rt.DB),
		Messages:  repository.NewDirectMessageRepository(rt.DB),
	}
}

// Close releases resources, flushes traces and writes the metrics textfile.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.DB != nil {
		errs = append(errs, database.Close(rt.DB))
	}
	errs = append(errs, rt.Cache.Close())

	if rt.shutdownTracing != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		errs = append(errs, rt.shutdownTracing(shutdownCtx))
	}

	if err := observability.WriteTextfile(rt.Config.MetricsTextfile); err != nil {
		errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
	}
	return errors.Join(errs...)
}
