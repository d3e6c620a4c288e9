package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultAlgorithm != "exact" {
		t.Errorf("expected default algorithm exact, got %s", cfg.DefaultAlgorithm)
	}
	if cfg.LSHTables != 4 || cfg.LSHPlanes != 8 || cfg.LSHSeed != 42 {
		t.Errorf("unexpected lsh defaults: %+v", cfg)
	}
	if cfg.SnapshotIntervalSeconds != 30 {
		t.Errorf("expected default snapshot interval 30, got %d", cfg.SnapshotIntervalSeconds)
	}
}

func TestLoadWithNoFilePresent(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VECBASE_DEFAULT_ALGORITHM", "lsh")
	t.Setenv("VECBASE_PORT", "9090")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultAlgorithm != "lsh" {
		t.Errorf("expected env override to lsh, got %s", cfg.DefaultAlgorithm)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected env override port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidAlgorithm(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VECBASE_DEFAULT_ALGORITHM", "bogus")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for invalid algorithm")
	}
}

func TestWriteDefaultConfigDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDefaultConfig(dir); err != nil {
		t.Fatalf("WriteDefaultConfig failed: %v", err)
	}
	path := filepath.Join(dir, DefaultConfigFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file written: %v", err)
	}
	if err := os.WriteFile(path, []byte("sentinel: true\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := WriteDefaultConfig(dir); err != nil {
		t.Fatalf("second WriteDefaultConfig failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "sentinel: true\n" {
		t.Fatalf("expected existing config preserved, got %s", data)
	}
}
