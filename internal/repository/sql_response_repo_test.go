package repository

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bemestar/internal/config"
	"bemestar/internal/model"
)

func samplePayload() *model.Payload {
	age := 34.0
	return &model.Payload{
		Profile:          model.PayloadProfile{Gender: "Feminino", Age: &age, Role: "Docente"},
		SelectedEntities: []string{"cei_lkm", "apae"},
		Answers: map[string]any{
			"A1_colegas":     map[string]any{"cei_lkm": "3", "apae": "4"},
			"gp_motivoRemun": "atraso",
		},
		Metadata: model.PayloadMetadata{CreatedAt: "2025-05-01T12:00:00.000Z", SchemaVersion: "1q-per-page-v2"},
	}
}

func TestSQLiteResponseRepo(t *testing.T) {
	db, err := OpenSQL(config.SinkSQLite, filepath.Join(t.TempDir(), "responses.db"))
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	repo, err := NewSQLResponseRepo(db, "respostas")
	if err != nil {
		t.Fatalf("NewSQLResponseRepo: %v", err)
	}

	want := samplePayload()
	if err := repo.Submit(context.Background(), want); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var rows []ResponseRecord
	if err := db.Table("respostas").Find(&rows).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	var got model.Payload
	if err := json.Unmarshal(rows[0].Dados, &got); err != nil {
		t.Fatalf("decode dados: %v", err)
	}
	if diff := cmp.Diff(*want, got); diff != "" {
		t.Errorf("stored payload (-want +got):\n%s", diff)
	}
}

func TestOpenResponseRepoRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenResponseRepo(&config.Config{SinkDriver: "kafka"}, nil); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := OpenResponseRepo(&config.Config{SinkDriver: config.SinkMongo}, nil); err == nil {
		t.Error("expected error for mongo without database")
	}
	if _, err := OpenResponseRepo(&config.Config{SinkDriver: config.SinkPostgres}, nil); err == nil {
		t.Error("expected error for postgres without dsn")
	}
}
