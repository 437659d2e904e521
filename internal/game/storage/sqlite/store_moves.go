package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openkalah/server/internal/game/domain/match"
	"github.com/openkalah/server/internal/game/storage"
)

// CommitMove applies one accepted move in a single transaction: the
// guarded match update, the new history row, player record updates
// when the game completed, and the reminder outbox entry when it
// continues. The version guard makes concurrent writers lose cleanly
// instead of interleaving.
func (s *Store) CommitMove(ctx context.Context, commit storage.MoveCommit) error {
	m := commit.Match
	if len(m.History) == 0 {
		return fmt.Errorf("commit move for match %s: empty history", m.ID)
	}

	board, err := boardToJSON(m.State.Board)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move commit tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE matches
		 SET next_player = ?, board = ?, status = ?, south_score = ?,
		     north_score = ?, version = ?, updated_at = ?, ended_at = ?
		 WHERE id = ? AND version = ?`,
		m.State.Next.Label(),
		board,
		match.StatusLabel(m.Status),
		toNullInt(m.SouthScore),
		toNullInt(m.NorthScore),
		m.Version,
		toMillis(m.UpdatedAt),
		toNullMillis(m.EndedAt),
		m.ID,
		commit.ExpectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	if err := resolveTxMatchWriteMiss(ctx, tx, result, m.ID); err != nil {
		return err
	}

	seq := len(m.History) - 1
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO match_moves (match_id, seq, house, played_at)
		 VALUES (?, ?, ?, ?)`,
		m.ID,
		seq,
		m.History[seq],
		toMillis(m.UpdatedAt),
	); err != nil {
		return fmt.Errorf("insert move %d for match %s: %w", seq, m.ID, err)
	}

	for _, p := range commit.Players {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE players
			 SET wins = ?, losses = ?, draws = ?, updated_at = ?
			 WHERE id = ?`,
			p.Wins,
			p.Losses,
			p.Draws,
			toMillis(p.UpdatedAt),
			p.ID,
		)
		if err != nil {
			return fmt.Errorf("update player record %s: %w", p.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("player update rows affected %s: %w", p.ID, err)
		}
		if affected != 1 {
			return fmt.Errorf("update player record %s: expected 1 row, got %d", p.ID, affected)
		}
	}

	if commit.Reminder != nil {
		r := commit.Reminder
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO reminder_outbox (match_id, player_id, status, attempt_count, next_attempt_at, last_error, updated_at)
			 VALUES (?, ?, 'pending', 0, ?, '', ?)`,
			r.MatchID,
			r.PlayerID,
			toMillis(r.NextAttempt),
			toMillis(m.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert reminder for match %s: %w", r.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move tx: %w", err)
	}
	return nil
}

func resolveTxMatchWriteMiss(ctx context.Context, tx *sql.Tx, result sql.Result, matchID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("match update rows affected %s: %w", matchID, err)
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM matches WHERE id = ?`, matchID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check match %s: %w", matchID, err)
	}
	return storage.ErrVersionConflict
}
