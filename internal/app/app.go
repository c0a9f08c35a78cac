// Package app opens the shared infrastructure the commands run on.
package app

import (
	"bemestar/internal/cache"
	"bemestar/internal/catalog"
	"bemestar/internal/config"
	"bemestar/internal/platform/logger"
	"bemestar/internal/repository"
	"bemestar/internal/service"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Mongo     *mongo.Client
	DB        *mongo.Database
	Redis     *redis.Client
	Catalogs  *service.CatalogService
	Catalog   *catalog.Catalog
	Responses repository.ResponseRepo
	Sessions  cache.SessionCache

	closers []func(context.Context) error
}

// Needs selects what Open provides besides the catalog.
type Needs struct {
	Sessions  bool
	Responses bool
}

// Open connects what cfg and needs ask for. Mongo is only dialed when the
// response sink or the catalog lives there.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, needs Needs) (*App, error) {
	a := &App{Config: cfg, Log: log}
	if err := a.open(ctx, needs); err != nil {
		a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) open(ctx context.Context, needs Needs) error {
	cfg := a.Config

	if (needs.Responses && cfg.SinkDriver == config.SinkMongo) || cfg.CatalogID != "" {
		if err := a.connectMongo(ctx); err != nil {
			return err
		}
	}

	var catalogRepo repository.CatalogRepo
	if a.DB != nil {
		catalogRepo = repository.NewCatalogRepo(a.DB)
	}
	a.Catalogs = service.NewCatalogService(catalogRepo)
	cat, err := a.Catalogs.Resolve(ctx, cfg.CatalogPath, cfg.CatalogID)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	a.Catalog = cat
	a.Log.Info("catalog loaded", "id", cat.ID(), "questions", cat.Len(), "schema", cat.SchemaVersion())

	if needs.Responses {
		a.Responses, err = repository.OpenResponseRepo(cfg, a.DB)
		if err != nil {
			return err
		}
		a.Log.Info("response sink ready", "driver", cfg.SinkDriver, "target", cfg.SinkTarget)
	}

	if !needs.Sessions {
		return nil
	}
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		a.Sessions = cache.NewMemorySessionCache(cfg.SessionTTL, cfg.LockTTL)
	case config.SessionStoreRedis:
		if err := a.connectRedis(ctx); err != nil {
			return err
		}
		a.Sessions = cache.NewSessionCache(a.Redis, cfg.SessionTTL, cfg.LockTTL)
	default:
		return fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
	return nil
}

func (a *App) connectMongo(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.Config.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.closers = append(a.closers, client.Disconnect)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	a.Mongo = client
	a.DB = client.Database(a.Config.MongoDB)
	a.Log.Info("connected to MongoDB", "database", a.Config.MongoDB)
	return nil
}

func (a *App) connectRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr()})
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	a.Redis = rdb
	a.Log.Info("connected to Redis", "addr", a.Config.RedisAddr())
	return nil
}

// Close releases connections in reverse order of opening.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

// SchemaVersion is the configured override, else the catalog's own.
func (a *App) SchemaVersion() string {
	if a.Config.SchemaVersion != "" {
		return a.Config.SchemaVersion
	}
	return a.Catalog.SchemaVersion()
}
