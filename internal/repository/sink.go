package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"bemestar/internal/config"
)

// OpenResponseRepo picks the response store named by cfg.SinkDriver. db may
// be nil unless the driver is mongo.
func OpenResponseRepo(cfg *config.Config, db *mongo.Database) (ResponseRepo, error) {
	switch cfg.SinkDriver {
	case config.SinkMongo:
		if db == nil {
			return nil, fmt.Errorf("repository: mongo sink needs a database")
		}
		return NewMongoResponseRepo(db, cfg.SinkTarget), nil
	case config.SinkPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("repository: POSTGRES_DSN is required for the postgres sink")
		}
		gdb, err := OpenSQL(config.SinkPostgres, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return NewSQLResponseRepo(gdb, cfg.SinkTarget)
	case config.SinkSQLite:
		gdb, err := OpenSQL(config.SinkSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLResponseRepo(gdb, cfg.SinkTarget)
	default:
		return nil, fmt.Errorf("repository: unknown sink driver %q", cfg.SinkDriver)
	}
}
