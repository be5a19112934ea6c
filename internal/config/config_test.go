package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port=%d, want 8080", cfg.Port)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Errorf("PingPeriod=%v, want 54s", cfg.PingPeriod)
	}
	if cfg.SendBuffer != 32 {
		t.Errorf("SendBuffer=%d, want 32", cfg.SendBuffer)
	}
	if !cfg.RequireLive {
		t.Error("RequireLive=false by default")
	}
	if got := cfg.WebRTC(); len(got) != 1 || got[0] != "stun:stun.l.google.com:19302" {
		t.Errorf("WebRTC()=%v, want the public STUN fallback", got)
	}
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	if err := os.Mkdir("config", 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	yaml := "port:\n  - 8080\n  - 9090\n"
	if err := os.WriteFile(filepath.Join("config", "config.bad.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("CONFIG_ENV", "bad")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a list-typed port")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	if err := os.Mkdir("config", 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	yaml := "mode: debug\nport: 9999\nrequire_live: false\nice_servers:\n  - stun:stun.example.org:3478\n"
	if err := os.WriteFile(filepath.Join("config", "config.test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 9999 {
		t.Fatalf("cfg=%+v, want file values", cfg)
	}
	if cfg.RequireLive {
		t.Error("RequireLive not overridden by file")
	}
	if got := cfg.WebRTC(); len(got) != 1 || got[0] != "stun:stun.example.org:3478" {
		t.Errorf("WebRTC()=%v, want file value", got)
	}
	// Unset keys still fall back to defaults.
	if cfg.SendBuffer != 32 {
		t.Errorf("SendBuffer=%d, want default 32", cfg.SendBuffer)
	}
}
