package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/openkalah/server/internal/game/domain/match"
	"github.com/openkalah/server/internal/game/domain/player"
	"github.com/openkalah/server/internal/game/storage"
	apperrors "github.com/openkalah/server/internal/platform/errors"
	"github.com/openkalah/server/internal/platform/timeouts"
)

const (
	moveCommitAttempts = 3
	moveRetryBaseDelay = 25 * time.Millisecond
)

// MakeMove plays one house for the named player. Rule and lifecycle
// rejections come back as a snapshot carrying the rejection message
// alongside the coded error, matching the original API which always
// returned the game state. Lost optimistic races are retried from a
// fresh read a bounded number of times.
func (s *Service) MakeMove(ctx context.Context, matchID, playerName string, house int) (MatchSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "MakeMove", trace.WithAttributes(
		attribute.String("match.id", matchID),
		attribute.Int("move.house", house),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, timeouts.MoveCommit)
	defer cancel()

	mover, err := s.stores.Players.GetPlayerByName(ctx, playerName)
	if err != nil {
		return MatchSnapshot{}, fmt.Errorf("resolve player %q: %w", playerName, err)
	}

	var lastErr error
	for attempt := 0; attempt < moveCommitAttempts; attempt++ {
		if attempt > 0 {
			delay := moveRetryBaseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return MatchSnapshot{}, ctx.Err()
			}
		}

		snap, err := s.tryMove(ctx, matchID, mover, house)
		if errors.Is(err, storage.ErrVersionConflict) {
			lastErr = err
			continue
		}
		return snap, err
	}
	return MatchSnapshot{}, fmt.Errorf("commit move on match %s: %w", matchID, lastErr)
}

// tryMove runs one read-apply-commit cycle.
func (s *Service) tryMove(ctx context.Context, matchID string, mover player.Player, house int) (MatchSnapshot, error) {
	m, north, south, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return MatchSnapshot{}, err
	}

	moved, outcome, err := match.ApplyMove(m, mover.ID, house, s.clock)
	if err != nil {
		// Rejections still render the unchanged game state.
		return snapshot(m, north.Name, south.Name, rejectionMessage(err)), err
	}

	commit := storage.MoveCommit{
		Match:           moved,
		ExpectedVersion: m.Version,
	}
	message := ""
	switch {
	case outcome.Completed:
		northRecord, err := player.ApplyResult(north, outcome.NorthResult, s.clock)
		if err != nil {
			return MatchSnapshot{}, err
		}
		southRecord, err := player.ApplyResult(south, outcome.SouthResult, s.clock)
		if err != nil {
			return MatchSnapshot{}, err
		}
		commit.Players = []player.Player{northRecord, southRecord}
		message = completionMessage(moved, north, south)
	default:
		commit.Reminder = &storage.ReminderEntry{
			MatchID:     moved.ID,
			PlayerID:    outcome.NextPlayerID,
			NextAttempt: s.clock().UTC(),
		}
		message = turnMessage(moved.State.Next)
	}

	if err := s.stores.Moves.CommitMove(ctx, commit); err != nil {
		return MatchSnapshot{}, err
	}
	return snapshot(moved, north.Name, south.Name, message), nil
}

// rejectionMessage maps a move rejection to the original API message.
func rejectionMessage(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeMatchAlreadyCompleted:
		return msgAlreadyOver
	case apperrors.CodeMatchAlreadyCanceled:
		return msgCanceled
	case apperrors.CodeMatchNotParticipant:
		return msgNotParticipant
	case apperrors.CodeMatchOutOfTurn:
		return msgOutOfTurn
	case apperrors.CodeMoveInvalidHouse:
		return msgInvalidMove
	default:
		return ""
	}
}

// completionMessage names the winner, or declares a draw.
func completionMessage(m match.Match, north, south player.Player) string {
	if m.NorthScore == nil || m.SouthScore == nil {
		return msgGameOverDraw
	}
	switch {
	case *m.NorthScore > *m.SouthScore:
		return fmt.Sprintf(winMessageFormat, north.Name)
	case *m.SouthScore > *m.NorthScore:
		return fmt.Sprintf(winMessageFormat, south.Name)
	default:
		return msgGameOverDraw
	}
}
