package config

import "testing"

type testConfig struct {
	Path     string `env:"KALAH_TEST_PATH" envDefault:"kalah.db"`
	PoolSize int    `env:"KALAH_TEST_POOL_SIZE" envDefault:"4"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Path != "kalah.db" {
		t.Fatalf("expected default path, got %q", cfg.Path)
	}
	if cfg.PoolSize != 4 {
		t.Fatalf("expected default pool size 4, got %d", cfg.PoolSize)
	}
}

func TestParseEnvOverride(t *testing.T) {
	t.Setenv("KALAH_TEST_PATH", "/tmp/override.db")
	t.Setenv("KALAH_TEST_POOL_SIZE", "9")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Path != "/tmp/override.db" {
		t.Fatalf("expected override path, got %q", cfg.Path)
	}
	if cfg.PoolSize != 9 {
		t.Fatalf("expected pool size 9, got %d", cfg.PoolSize)
	}
}

func TestParseEnvInvalidValue(t *testing.T) {
	t.Setenv("KALAH_TEST_POOL_SIZE", "not-a-number")

	var cfg testConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
