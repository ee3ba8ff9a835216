package config

import (
	"testing"
	"time"
)

func TestLoad_NonexistentFile(t *testing.T) {
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.yaml", "port: 8080\n: broken\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected YAML unmarshal error")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.json", `{ "port": 8080, "model": }`)
	if _, err := Load(p); err == nil {
		t.Fatalf("expected JSON unmarshal error")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.toml", "port=:8080\nmodel\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected TOML unmarshal error")
	}
}

func TestLoadOrDefault_BadFileFallsBack(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.json", `{"port": "eighty"}`)
	var warned error
	cfg := LoadOrDefault(p, func(err error) { warned = err })
	if warned == nil {
		t.Fatalf("expected warning for unparseable config")
	}
	if cfg.Port != DefaultPort || cfg.Addr() != "127.0.0.1:8080" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg := LoadOrDefault("", nil)
	if cfg.Model != DefaultModel || cfg.Arch != DefaultArch || cfg.MaxTokens != DefaultMaxTokens {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if !cfg.Echo() {
		t.Fatalf("echo defaults on")
	}
	if cfg.TokenBound() != 100 {
		t.Fatalf("bound = %d", cfg.TokenBound())
	}
	if cfg.MaxWait() != 30*time.Second || cfg.InferTimeout() != 0 || cfg.CacheTTL() != 0 {
		t.Fatalf("durations: %v %v %v", cfg.MaxWait(), cfg.InferTimeout(), cfg.CacheTTL())
	}

	cfg = Config{MaxTokens: -1, Host: "::1", Port: 9000}.WithDefaults()
	if cfg.TokenBound() != 0 {
		t.Fatalf("negative max_tokens should be unbounded, got %d", cfg.TokenBound())
	}
	if cfg.Addr() != "[::1]:9000" {
		t.Fatalf("addr = %s", cfg.Addr())
	}
}
