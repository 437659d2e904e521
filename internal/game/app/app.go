// Package app wires the game service together: storage, service,
// reminder worker, and lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/openkalah/server/internal/game/notify"
	"github.com/openkalah/server/internal/game/service"
	"github.com/openkalah/server/internal/game/storage"
	"github.com/openkalah/server/internal/game/storage/sqlite"
)

// Config holds the runtime dependencies of the game app.
type Config struct {
	// DBPath locates the sqlite database file.
	DBPath string
	// ReminderPollInterval sets how often the worker drains the
	// reminder outbox.
	ReminderPollInterval time.Duration
	// Dispatcher delivers turn reminders. Defaults to LogDispatcher.
	Dispatcher notify.Dispatcher
}

// App is a wired game service instance.
type App struct {
	Service *service.Service
	Worker  *notify.Worker

	store *sqlite.Store
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	if c.ReminderPollInterval <= 0 {
		c.ReminderPollInterval = 5 * time.Second
	}
	if c.Dispatcher == nil {
		c.Dispatcher = notify.LogDispatcher{}
	}
	return c
}

// New opens storage and builds the service and reminder worker.
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open game store: %w", err)
	}

	stores := storage.Stores{
		Players:   store,
		Matches:   store,
		Moves:     store,
		Reminders: store,
	}

	return &App{
		Service: service.New(stores),
		Worker:  notify.NewWorker(stores, cfg.Dispatcher, cfg.ReminderPollInterval),
		store:   store,
	}, nil
}

// Close releases storage resources.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.store.Close()
}

// Run wires the app and drives the reminder worker until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	a, err := New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("close game store: %v", err)
		}
	}()

	log.Printf("game service ready db_path=%s poll_interval=%s", cfg.DBPath, cfg.ReminderPollInterval)
	err = a.Worker.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
