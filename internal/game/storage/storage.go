// Package storage defines the persistence interfaces the game service
// depends on. Implementations live in subpackages; the service only
// sees these contracts plus a handful of sentinel errors.
package storage

import (
	"context"
	"time"

	"github.com/openkalah/server/internal/game/domain/match"
	"github.com/openkalah/server/internal/game/domain/player"
	apperrors "github.com/openkalah/server/internal/platform/errors"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "entity not found")
	// ErrNameTaken indicates a player name uniqueness violation.
	ErrNameTaken = apperrors.New(apperrors.CodePlayerNameTaken, "player name already taken")
	// ErrVersionConflict indicates the match changed since it was read.
	// Callers should re-read and retry.
	ErrVersionConflict = apperrors.New(apperrors.CodeMatchVersionConflict, "match was modified concurrently")
)

// PlayerStore persists player records.
type PlayerStore interface {
	// PutPlayer inserts a new player. Returns ErrNameTaken when the
	// name is already registered.
	PutPlayer(ctx context.Context, p player.Player) error

	// GetPlayer fetches a player by ID. Returns ErrNotFound when
	// missing.
	GetPlayer(ctx context.Context, id string) (player.Player, error)

	// GetPlayerByName fetches a player by exact name. Returns
	// ErrNotFound when missing.
	GetPlayerByName(ctx context.Context, name string) (player.Player, error)

	// ListPlayers returns every registered player.
	ListPlayers(ctx context.Context) ([]player.Player, error)
}

// MatchStore persists match records and their move histories.
type MatchStore interface {
	// PutMatch inserts a new match with an empty history.
	PutMatch(ctx context.Context, m match.Match) error

	// GetMatch fetches a match by ID, history included. Returns
	// ErrNotFound when missing.
	GetMatch(ctx context.Context, id string) (match.Match, error)

	// ListMatchesByPlayer returns matches where the player holds
	// either seat, newest first. When activeOnly is set, completed and
	// canceled matches are excluded.
	ListMatchesByPlayer(ctx context.Context, playerID string, activeOnly bool) ([]match.Match, error)

	// ListCompletedMatches returns every completed match, newest
	// first.
	ListCompletedMatches(ctx context.Context) ([]match.Match, error)

	// UpdateMatch writes a match back, matching on ExpectedVersion.
	// Returns ErrVersionConflict when the stored version differs and
	// ErrNotFound when the match does not exist. Used for lifecycle
	// changes that carry no move, such as cancellation.
	UpdateMatch(ctx context.Context, m match.Match, expectedVersion int64) error
}

// ReminderEntry is one turn-notification row in the outbox. Entries
// are written in the same transaction as the move they follow and
// dispatched asynchronously.
type ReminderEntry struct {
	ID           int64
	MatchID      string
	PlayerID     string
	AttemptCount int
	NextAttempt  time.Time
	LastError    string
}

// MoveCommit bundles everything one accepted move changes. A committer
// applies the whole bundle in a single transaction or not at all.
type MoveCommit struct {
	// Match is the post-move match, version already incremented.
	Match match.Match
	// ExpectedVersion is the version the match was read at.
	ExpectedVersion int64
	// Players carries updated win/loss/draw records when the move
	// completed the game. Empty otherwise.
	Players []player.Player
	// Reminder is the outbox entry for the next player when the game
	// continues. Nil when the move ended the game.
	Reminder *ReminderEntry
}

// MoveCommitter atomically persists a move and its side effects.
type MoveCommitter interface {
	// CommitMove applies the bundle in one transaction: the match
	// update (with its new history entry), player record updates, and
	// the reminder outbox entry. Returns ErrVersionConflict when
	// another writer got there first.
	CommitMove(ctx context.Context, commit MoveCommit) error
}

// ReminderStore drains the turn-notification outbox.
type ReminderStore interface {
	// ClaimDueReminders atomically claims up to limit entries whose
	// next attempt is due, so concurrent workers never dispatch the
	// same entry twice.
	ClaimDueReminders(ctx context.Context, now time.Time, limit int) ([]ReminderEntry, error)

	// MarkReminderSent records a successful dispatch.
	MarkReminderSent(ctx context.Context, id int64) error

	// MarkReminderFailed records a failed attempt and schedules the
	// retry, or dead-letters the entry once attempts are exhausted.
	MarkReminderFailed(ctx context.Context, id int64, dispatchErr error, now time.Time) error
}

// Stores aggregates every persistence dependency of the game service.
type Stores struct {
	Players   PlayerStore
	Matches   MatchStore
	Moves     MoveCommitter
	Reminders ReminderStore
}
