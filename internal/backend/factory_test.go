package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"paycycle/internal/config"
	"paycycle/internal/notify"
	"paycycle/internal/sheets/memory"
	"paycycle/internal/storage"
	"paycycle/internal/store"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		config   Config
		wantRepo string
		wantErr  string
	}{
		{
			name:     "memory",
			config:   Config{Type: MemoryBackend},
			wantRepo: "memory",
		},
		{
			name:     "file",
			config:   Config{Type: FileBackend, DataFile: filepath.Join(dir, "entries.json")},
			wantRepo: "file",
		},
		{
			name:     "sqlite",
			config:   Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "paycycle.db")},
			wantRepo: "sqlite",
		},
		{
			name:    "unknown type",
			config:  Config{Type: "sheets"},
			wantErr: "invalid backend type",
		},
		{
			name:    "sqlite without path",
			config:  Config{Type: SQLiteBackend},
			wantErr: "SQLite database path is required",
		},
		{
			name:    "amqp without queue",
			config:  Config{Type: MemoryBackend, AMQPURL: "amqp://localhost/", AMQPExchange: "x"},
			wantErr: "AMQP exchange and queue are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewFactory(nil).CreateBackend(context.Background(), tt.config)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("CreateBackend() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Close()

			var got string
			switch res.Repository.(type) {
			case *store.MemoryRepository:
				got = "memory"
			case *store.FileRepository:
				got = "file"
			case *storage.SQLiteRepository:
				got = "sqlite"
			}
			if got != tt.wantRepo {
				t.Errorf("Repository = %T, want %s", res.Repository, tt.wantRepo)
			}
			if _, ok := res.Sink.(*notify.MemorySink); !ok {
				t.Errorf("Sink = %T, want in-memory without AMQP", res.Sink)
			}
			if _, ok := res.Mirror.(*memory.Mirror); !ok {
				t.Errorf("Mirror = %T, want in-memory without a spreadsheet", res.Mirror)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("FromAppConfig(nil) should fail")
	}

	cfg := &config.Config{DataBackend: "file", DataFile: "x.json", GoogleSheetName: "Payments"}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != FileBackend || got.DataFile != "x.json" || got.GoogleSheetName != "Payments" {
		t.Errorf("FromAppConfig() = %+v", got)
	}

	cfg.DataBackend = "postgres"
	if _, err := FromAppConfig(cfg); err == nil {
		t.Error("FromAppConfig() should reject unknown backends")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "sqlite,file,memory" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}

func TestBackendResultCloseNil(t *testing.T) {
	var r *BackendResult
	if err := r.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
