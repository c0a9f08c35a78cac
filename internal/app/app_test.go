package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bemestar/internal/catalog"
	"bemestar/internal/config"
	"bemestar/internal/platform/logger"
)

func localConfig(t *testing.T) *config.Config {
	return &config.Config{
		SessionStore: config.SessionStoreMemory,
		SessionTTL:   time.Hour,
		SinkDriver:   config.SinkSQLite,
		SinkTarget:   "respostas",
		SQLitePath:   filepath.Join(t.TempDir(), "responses.db"),
	}
}

func TestOpenWithoutMongo(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, localConfig(t), logger.Nop(), Needs{Sessions: true, Responses: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close(ctx)

	if a.Mongo != nil || a.Redis != nil {
		t.Error("remote stores dialed for a local configuration")
	}
	if a.Catalog.ID() != catalog.DefaultID {
		t.Errorf("catalog = %q", a.Catalog.ID())
	}
	if a.Sessions == nil || a.Responses == nil {
		t.Fatal("sessions or responses not opened")
	}
	if got := a.SchemaVersion(); got != a.Catalog.SchemaVersion() {
		t.Errorf("SchemaVersion = %q", got)
	}
}

func TestOpenSchemaOverrideAndNoSessions(t *testing.T) {
	cfg := localConfig(t)
	cfg.SchemaVersion = "v-test"
	a, err := Open(context.Background(), cfg, logger.Nop(), Needs{Responses: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close(context.Background())

	if a.Sessions != nil {
		t.Error("sessions opened without being asked for")
	}
	if a.SchemaVersion() != "v-test" {
		t.Errorf("SchemaVersion = %q", a.SchemaVersion())
	}
}

func TestOpenRejectsUnknownSessionStore(t *testing.T) {
	cfg := localConfig(t)
	cfg.SessionStore = "etcd"
	if _, err := Open(context.Background(), cfg, logger.Nop(), Needs{Sessions: true}); err == nil {
		t.Fatal("Open accepted an unknown session store")
	}
}

func TestOpenWithoutResponsesSkipsSink(t *testing.T) {
	cfg := localConfig(t)
	// Would need a reachable Mongo if the sink were opened.
	cfg.SinkDriver = config.SinkMongo
	cfg.MongoURI = "mongodb://127.0.0.1:1"

	a, err := Open(context.Background(), cfg, logger.Nop(), Needs{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close(context.Background())

	if a.Responses != nil || a.Mongo != nil {
		t.Error("response sink opened although not needed")
	}
	if _, err := os.Stat(cfg.SQLitePath); !os.IsNotExist(err) {
		t.Errorf("sqlite file touched: %v", err)
	}
}
