package test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/binhbb2204/manga-catalog/cli/config"
)

func TestLoadBeforeInit(t *testing.T) {
	config.SetDir(t.TempDir())
	defer config.SetDir("")

	if _, err := config.Load(); !errors.Is(err, config.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInitAndTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	config.SetDir(dir)
	defer config.SetDir("")

	cfg, err := config.Init("http://catalog.local:9000/")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if cfg.Server.URL != "http://catalog.local:9000" {
		t.Errorf("unexpected url %q", cfg.Server.URL)
	}

	if err := config.UpdateUserToken("alice", "tok"); err != nil {
		t.Fatalf("update token: %v", err)
	}
	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.User.Username != "alice" || loaded.User.Token != "tok" || loaded.Server.Timeout != 10 {
		t.Errorf("unexpected config %+v", loaded)
	}

	info, err := os.Stat(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	if err := config.ClearUserToken(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, _ = config.Load()
	if loaded.User.Token != "" {
		t.Error("token not cleared")
	}

	again, err := config.Init("http://other:1")
	if err != nil || again.Server.URL != "http://catalog.local:9000" {
		t.Errorf("init must keep an existing config, got %+v, %v", again, err)
	}
}

func TestSet(t *testing.T) {
	cfg := config.Default()
	if err := config.Set(cfg, "server.url", "http://x:1/"); err != nil || cfg.Server.URL != "http://x:1" {
		t.Errorf("server.url: %v %q", err, cfg.Server.URL)
	}
	if err := config.Set(cfg, "server.timeout_seconds", "0"); err == nil {
		t.Error("expected error for zero timeout")
	}
	if err := config.Set(cfg, "output.format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := config.Set(cfg, "sync.auto", "true"); err == nil {
		t.Error("expected error for unknown key")
	}
}
