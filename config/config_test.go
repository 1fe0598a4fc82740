package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desksprite.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
sprites:
  - file: cat.xml
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PoolSize != runtime.NumCPU() {
		t.Errorf("pool size = %d, want NumCPU %d", cfg.PoolSize, runtime.NumCPU())
	}
	if len(cfg.Sprites) != 1 || cfg.Sprites[0].Count != 1 {
		t.Errorf("sprite count not defaulted: %+v", cfg.Sprites)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
pool_size: 2
log_level: debug
watch_dir: ./sprites
sprites:
  - file: cat.xml
    count: 3
  - file: dog.xml
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PoolSize != 2 {
		t.Errorf("pool size = %d, want 2", cfg.PoolSize)
	}
	if cfg.WatchDir != "./sprites" {
		t.Errorf("watch dir = %q, want ./sprites", cfg.WatchDir)
	}
	if cfg.Sprites[0].Count != 3 || cfg.Sprites[1].Count != 1 {
		t.Errorf("sprite counts = %+v", cfg.Sprites)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("slog level = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("slog level = %v for unknown name, want info", cfg.SlogLevel())
	}
}

func TestPathHonorsEnv(t *testing.T) {
	t.Setenv("DESKSPRITE_CONFIG", "/tmp/other.yaml")
	if got := Path(); got != "/tmp/other.yaml" {
		t.Errorf("Path() = %q, want /tmp/other.yaml", got)
	}
	t.Setenv("DESKSPRITE_CONFIG", "")
	if got := Path(); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}
}
