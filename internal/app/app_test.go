package app

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/rxguard/rxguard/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{
			name:    "create app with version",
			version: "1.0.0",
		},
		{
			name:    "create app with dev version",
			version: "dev",
		},
		{
			name:    "create app with empty version",
			version: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New(nil, nil, tt.version)
			if app == nil {
				t.Fatal("expected app to be created, got nil")
			}
			if app.Version != tt.version {
				t.Errorf("expected version %q, got %q", tt.version, app.Version)
			}
		})
	}
}

func TestInitWithMemoryTransport(t *testing.T) {
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Storage.SQLitePath = filepath.Join(dir, "test.db")
	cfg.Transport.Default = "memory"
	cfg.Extraction.ConfidenceThreshold = 0.6
	cfg.Dispatch.TimeoutSeconds = 1

	application := New(cfg, zap.NewNop(), "test")
	if err := application.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer application.Shutdown()

	if application.Engine == nil {
		t.Error("expected engine to be initialized")
	}
	if application.Scheduler == nil {
		t.Error("expected scheduler to be initialized")
	}
	if application.Dispatcher == nil {
		t.Error("expected dispatcher to be initialized")
	}
}
