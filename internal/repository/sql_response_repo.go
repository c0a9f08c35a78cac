package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"bemestar/internal/model"
)

// ResponseRecord is one row of the responses table.
type ResponseRecord struct {
	ID        uint           `gorm:"primaryKey"`
	Dados     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

type sqlResponseRepo struct {
	db    *gorm.DB
	table string
}

// OpenSQL connects gorm to postgres or sqlite.
func OpenSQL(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("repository: unknown sql driver %q", driver)
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return db, nil
}

// NewSQLResponseRepo writes payloads into table, creating it when missing.
func NewSQLResponseRepo(db *gorm.DB, table string) (ResponseRepo, error) {
	if err := db.Table(table).AutoMigrate(&ResponseRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", table, err)
	}
	return &sqlResponseRepo{db: db, table: table}, nil
}

func (r *sqlResponseRepo) Submit(ctx context.Context, payload *model.Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	rec := ResponseRecord{
		Dados:     datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Table(r.table).Create(&rec).Error
}
