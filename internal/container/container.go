package container

import (
	"context"
	"fmt"
	"io"
	"time"

	"ymlfeed/report/internal/cache"
	"ymlfeed/report/internal/client"
	"ymlfeed/report/internal/config"
	"ymlfeed/report/internal/proxy"
	"ymlfeed/report/internal/queue"
	"ymlfeed/report/internal/repository"
	"ymlfeed/report/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.FeedClient
	Cache      cache.FeedCache
	Repository repository.ReportRepository
	Publisher  queue.Publisher

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized. Redis and
// Postgres are only connected when a component needs them.
func New(ctx context.Context, cfg *config.Config, out io.Writer) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	fs := afero.NewOsFs()
	timeout := time.Duration(cfg.Feed.Timeout) * time.Second

	proxySupplier := proxy.NewSupplier(ctx, cfg.Feed.Proxies, cfg.Feed.URL, timeout)
	container.Client = client.NewFeedClient(cfg.Feed, proxySupplier)

	if cfg.Cache.Backend == config.CacheRedis || cfg.Redis.StreamEnabled {
		rdb, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		container.redis = rdb
	}

	switch cfg.Cache.Backend {
	case config.CacheRedis:
		container.Cache = cache.NewRedisCache(container.redis, time.Duration(cfg.Cache.TTL)*time.Second)
	case config.CacheFile:
		container.Cache = cache.NewFileCache(fs, cfg.Debug.CacheFile)
	default:
		container.Cache = cache.NopCache{}
	}

	var publisher queue.Publisher
	if cfg.Redis.StreamEnabled {
		publisher = queue.NewRedisQueue(container.redis, cfg.Redis)
		container.Publisher = publisher
	}

	var reportRepo repository.ReportRepository
	if cfg.Database.Enabled {
		db, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			container.Close()
			return nil, err
		}
		container.db = db
		reportRepo = repository.NewReportRepository(db)
		container.Repository = reportRepo
	}

	container.Service = service.NewService(
		container.Client,
		container.Cache,
		reportRepo,
		publisher,
		fs,
		out,
		cfg.Debug,
	)

	return container, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")
	return rdb, nil
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx,
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
		))
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("✅ Connected to Postgres successfully")
	return db, nil
}

// Run builds one report for url
func (c *Container) Run(ctx context.Context, url string) error {
	err := c.Service.Run(ctx, url)

	if c.Config.Debug.Enabled {
		if timings := c.Service.Timings(); timings != nil {
			timings.Log()
		}
	}

	return err
}

// Close performs cleanup when shutting down
func (c *Container) Close() {
	log.Debug("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}
}
