package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/openkalah/server/internal/game/domain/match"
	"github.com/openkalah/server/internal/game/domain/player"
	"github.com/openkalah/server/internal/game/storage"
)

type workerFakes struct {
	players   map[string]player.Player
	matches   map[string]match.Match
	reminders []storage.ReminderEntry
	failed    []int64
	sent      []int64
}

func newWorkerFakes() *workerFakes {
	return &workerFakes{
		players: make(map[string]player.Player),
		matches: make(map[string]match.Match),
	}
}

func (f *workerFakes) stores() storage.Stores {
	return storage.Stores{Players: f, Matches: f, Reminders: f}
}

func (f *workerFakes) PutPlayer(_ context.Context, p player.Player) error {
	f.players[p.ID] = p
	return nil
}

func (f *workerFakes) GetPlayer(_ context.Context, id string) (player.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return player.Player{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *workerFakes) GetPlayerByName(_ context.Context, name string) (player.Player, error) {
	for _, p := range f.players {
		if p.Name == name {
			return p, nil
		}
	}
	return player.Player{}, storage.ErrNotFound
}

func (f *workerFakes) ListPlayers(_ context.Context) ([]player.Player, error) {
	return nil, nil
}

func (f *workerFakes) PutMatch(_ context.Context, m match.Match) error {
	f.matches[m.ID] = m
	return nil
}

func (f *workerFakes) GetMatch(_ context.Context, id string) (match.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return match.Match{}, storage.ErrNotFound
	}
	return m, nil
}

func (f *workerFakes) ListMatchesByPlayer(_ context.Context, _ string, _ bool) ([]match.Match, error) {
	return nil, nil
}

func (f *workerFakes) ListCompletedMatches(_ context.Context) ([]match.Match, error) {
	return nil, nil
}

func (f *workerFakes) UpdateMatch(_ context.Context, m match.Match, _ int64) error {
	f.matches[m.ID] = m
	return nil
}

func (f *workerFakes) ClaimDueReminders(_ context.Context, now time.Time, limit int) ([]storage.ReminderEntry, error) {
	var due []storage.ReminderEntry
	for _, entry := range f.reminders {
		if !entry.NextAttempt.After(now) && len(due) < limit {
			due = append(due, entry)
		}
	}
	return due, nil
}

func (f *workerFakes) MarkReminderSent(_ context.Context, id int64) error {
	for i, entry := range f.reminders {
		if entry.ID == id {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			f.sent = append(f.sent, id)
			return nil
		}
	}
	return fmt.Errorf("reminder %d not found", id)
}

func (f *workerFakes) MarkReminderFailed(_ context.Context, id int64, _ error, now time.Time) error {
	for i := range f.reminders {
		if f.reminders[i].ID == id {
			f.reminders[i].AttemptCount++
			f.reminders[i].NextAttempt = now.Add(time.Hour)
			f.failed = append(f.failed, id)
			return nil
		}
	}
	return fmt.Errorf("reminder %d not found", id)
}

type recordingDispatcher struct {
	dispatched []Reminder
	err        error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, r Reminder, _ Message) error {
	if d.err != nil {
		return d.err
	}
	d.dispatched = append(d.dispatched, r)
	return nil
}

func workerTime() time.Time {
	return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
}

func seedWorkerFixture(t *testing.T, fakes *workerFakes) {
	t.Helper()
	ctx := context.Background()
	if err := fakes.PutPlayer(ctx, player.Player{ID: "player-n", Name: "nina", Email: "nina@example.com"}); err != nil {
		t.Fatalf("PutPlayer() error = %v", err)
	}
	if err := fakes.PutPlayer(ctx, player.Player{ID: "player-s", Name: "sam"}); err != nil {
		t.Fatalf("PutPlayer() error = %v", err)
	}
	m, err := match.Create("player-n", "player-s", true, workerTime, func() (string, error) { return "match-1", nil })
	if err != nil {
		t.Fatalf("match.Create() error = %v", err)
	}
	if err := fakes.PutMatch(ctx, m); err != nil {
		t.Fatalf("PutMatch() error = %v", err)
	}
	fakes.reminders = []storage.ReminderEntry{{
		ID:          1,
		MatchID:     "match-1",
		PlayerID:    "player-n",
		NextAttempt: workerTime(),
	}}
}

func TestDrainOnceDispatchesDueReminder(t *testing.T) {
	fakes := newWorkerFakes()
	seedWorkerFixture(t, fakes)
	dispatcher := &recordingDispatcher{}
	worker := NewWorker(fakes.stores(), dispatcher, time.Second, WithWorkerClock(workerTime))

	sent, err := worker.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce() error = %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(dispatcher.dispatched))
	}
	got := dispatcher.dispatched[0]
	if got.PlayerName != "nina" || got.OpponentName != "sam" || got.MatchID != "match-1" {
		t.Errorf("reminder = %+v", got)
	}
	if len(fakes.reminders) != 0 {
		t.Errorf("outbox still holds %d entries", len(fakes.reminders))
	}
}

func TestDrainOnceMarksFailureForRetry(t *testing.T) {
	fakes := newWorkerFakes()
	seedWorkerFixture(t, fakes)
	dispatcher := &recordingDispatcher{err: errors.New("smtp unavailable")}
	worker := NewWorker(fakes.stores(), dispatcher, time.Second, WithWorkerClock(workerTime))

	sent, err := worker.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce() error = %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
	if len(fakes.failed) != 1 {
		t.Fatalf("failed marks = %d, want 1", len(fakes.failed))
	}
	if fakes.reminders[0].AttemptCount != 1 {
		t.Errorf("AttemptCount = %d, want 1", fakes.reminders[0].AttemptCount)
	}
}

func TestDrainOnceSkipsFinishedMatch(t *testing.T) {
	fakes := newWorkerFakes()
	seedWorkerFixture(t, fakes)
	m := fakes.matches["match-1"]
	canceled, err := match.Cancel(m, workerTime)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	fakes.matches["match-1"] = canceled
	dispatcher := &recordingDispatcher{}
	worker := NewWorker(fakes.stores(), dispatcher, time.Second, WithWorkerClock(workerTime))

	sent, err := worker.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("DrainOnce() error = %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1 (drained without delivery)", sent)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Errorf("dispatched = %d, want 0", len(dispatcher.dispatched))
	}
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	fakes := newWorkerFakes()
	dispatcher := &recordingDispatcher{}
	worker := NewWorker(fakes.stores(), dispatcher, 10*time.Millisecond, WithWorkerClock(workerTime))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := worker.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
}
