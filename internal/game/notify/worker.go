package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/openkalah/server/internal/game/storage"
	"github.com/openkalah/server/internal/platform/timeouts"
)

const defaultClaimBatch = 16

// Worker polls the reminder outbox and dispatches due entries.
type Worker struct {
	stores       storage.Stores
	dispatcher   Dispatcher
	pollInterval time.Duration
	clock        func() time.Time
	batchSize    int
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithWorkerClock overrides the worker clock.
func WithWorkerClock(clock func() time.Time) WorkerOption {
	return func(w *Worker) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithBatchSize overrides how many entries one poll claims.
func WithBatchSize(size int) WorkerOption {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// NewWorker builds a reminder worker over the given stores.
func NewWorker(stores storage.Stores, dispatcher Dispatcher, pollInterval time.Duration, opts ...WorkerOption) *Worker {
	w := &Worker{
		stores:       stores,
		dispatcher:   dispatcher,
		pollInterval: pollInterval,
		clock:        time.Now,
		batchSize:    defaultClaimBatch,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run polls until ctx ends. Dispatch failures are recorded per entry
// and retried with backoff; they never stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.DrainOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("reminder drain: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// DrainOnce claims and dispatches one batch of due reminders,
// returning how many were delivered.
func (w *Worker) DrainOnce(ctx context.Context) (int, error) {
	now := w.clock().UTC()
	entries, err := w.stores.Reminders.ClaimDueReminders(ctx, now, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("claim due reminders: %w", err)
	}

	sent := 0
	for _, entry := range entries {
		if err := w.dispatchEntry(ctx, entry); err != nil {
			if markErr := w.stores.Reminders.MarkReminderFailed(ctx, entry.ID, err, w.clock().UTC()); markErr != nil {
				return sent, fmt.Errorf("mark reminder %d failed: %w", entry.ID, markErr)
			}
			log.Printf("reminder dispatch match_id=%s player_id=%s attempt=%d: %v",
				entry.MatchID, entry.PlayerID, entry.AttemptCount+1, err)
			continue
		}
		if err := w.stores.Reminders.MarkReminderSent(ctx, entry.ID); err != nil {
			return sent, fmt.Errorf("mark reminder %d sent: %w", entry.ID, err)
		}
		sent++
	}
	return sent, nil
}

// dispatchEntry resolves the reminder's participants. A match that has
// meanwhile finished is dispatched as sent without delivery, so stale
// outbox entries drain instead of retrying forever.
func (w *Worker) dispatchEntry(ctx context.Context, entry storage.ReminderEntry) error {
	m, err := w.stores.Matches.GetMatch(ctx, entry.MatchID)
	if err != nil {
		return fmt.Errorf("load match %s: %w", entry.MatchID, err)
	}
	if !m.Active() {
		return nil
	}

	target, err := w.stores.Players.GetPlayer(ctx, entry.PlayerID)
	if err != nil {
		return fmt.Errorf("load player %s: %w", entry.PlayerID, err)
	}
	opponentID := m.NorthPlayerID
	if target.ID == m.NorthPlayerID {
		opponentID = m.SouthPlayerID
	}
	opponent, err := w.stores.Players.GetPlayer(ctx, opponentID)
	if err != nil {
		return fmt.Errorf("load opponent %s: %w", opponentID, err)
	}

	reminder := Reminder{
		MatchID:      m.ID,
		PlayerName:   target.Name,
		PlayerEmail:  target.Email,
		OpponentName: opponent.Name,
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, timeouts.ReminderDispatch)
	defer cancel()
	return w.dispatcher.Dispatch(dispatchCtx, reminder, ComposeReminder(reminder))
}
