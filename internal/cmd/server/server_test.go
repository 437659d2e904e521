package server

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != "kalah.db" {
		t.Errorf("DBPath = %q, want kalah.db", cfg.DBPath)
	}
	if cfg.ReminderPollInterval != 5*time.Second {
		t.Errorf("ReminderPollInterval = %v, want 5s", cfg.ReminderPollInterval)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("KALAH_DB_PATH", "/var/env.db")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/var/flag.db", "-reminder-poll-interval", "250ms"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != "/var/flag.db" {
		t.Errorf("DBPath = %q, want /var/flag.db", cfg.DBPath)
	}
	if cfg.ReminderPollInterval != 250*time.Millisecond {
		t.Errorf("ReminderPollInterval = %v, want 250ms", cfg.ReminderPollInterval)
	}
}

func TestParseConfigEnvDefaultsFlags(t *testing.T) {
	t.Setenv("KALAH_DB_PATH", "/var/env.db")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != "/var/env.db" {
		t.Errorf("DBPath = %q, want /var/env.db", cfg.DBPath)
	}
}
