// Package server parses game server flags and starts the app runtime.
package server

import (
	"context"
	"flag"
	"time"

	"github.com/openkalah/server/internal/game/app"
	entrypoint "github.com/openkalah/server/internal/platform/cmd"
)

// Config holds game server configuration.
type Config struct {
	DBPath               string        `env:"KALAH_DB_PATH" envDefault:"kalah.db"`
	ReminderPollInterval time.Duration `env:"KALAH_REMINDER_POLL_INTERVAL" envDefault:"5s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite database file")
	fs.DurationVar(&cfg.ReminderPollInterval, "reminder-poll-interval", cfg.ReminderPollInterval, "How often the reminder worker drains the outbox")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		return app.Run(ctx, app.Config{
			DBPath:               cfg.DBPath,
			ReminderPollInterval: cfg.ReminderPollInterval,
		})
	})
}
