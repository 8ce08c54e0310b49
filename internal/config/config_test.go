package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
  cors_origins: ["http://localhost:3000"]
redis:
  addr: localhost:6379
  ttl: 5m
bank:
  id: iot
  file: data.json
practice:
  allow_sequential_all: true
  session_idle: 1h
telemetry:
  enabled: true
  max_len: 100
  metrics: true
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || len(cfg.Server.CORSOrigins) != 1 {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Bank.ID != "iot" || cfg.Bank.File != "data.json" || !cfg.Practice.AllowSequentialAll {
		t.Fatalf("unexpected bank/practice config: %+v %+v", cfg.Bank, cfg.Practice)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.MaxLen != 100 || !cfg.Telemetry.Metrics {
		t.Fatalf("unexpected telemetry config: %+v", cfg.Telemetry)
	}
	if got := TTLDuration(cfg.Practice.SessionIdle, time.Minute); got != time.Hour {
		t.Fatalf("expected 1h, got %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("server: [unclosed"), 0o600)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("soon", time.Second); got != time.Second {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
