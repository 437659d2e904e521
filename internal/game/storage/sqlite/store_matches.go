package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openkalah/server/internal/game/domain/kalah"
	"github.com/openkalah/server/internal/game/domain/match"
	"github.com/openkalah/server/internal/game/storage"
)

const matchColumns = "id, north_player_id, south_player_id, next_player, board, status, south_score, north_score, version, created_at, updated_at, ended_at"

func boardToJSON(b kalah.Board) (string, error) {
	raw, err := json.Marshal([14]int(b))
	if err != nil {
		return "", fmt.Errorf("marshal board: %w", err)
	}
	return string(raw), nil
}

func boardFromJSON(value string) (kalah.Board, error) {
	var pits [14]int
	if err := json.Unmarshal([]byte(value), &pits); err != nil {
		return kalah.Board{}, fmt.Errorf("unmarshal board: %w", err)
	}
	return kalah.Board(pits), nil
}

// PutMatch inserts a new match row with an empty history.
func (s *Store) PutMatch(ctx context.Context, m match.Match) error {
	board, err := boardToJSON(m.State.Board)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO matches (`+matchColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.NorthPlayerID,
		m.SouthPlayerID,
		m.State.Next.Label(),
		board,
		match.StatusLabel(m.Status),
		toNullInt(m.SouthScore),
		toNullInt(m.NorthScore),
		m.Version,
		toMillis(m.CreatedAt),
		toMillis(m.UpdatedAt),
		toNullMillis(m.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	return nil
}

// GetMatch fetches a match by ID, move history included.
func (s *Store) GetMatch(ctx context.Context, id string) (match.Match, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`,
		id,
	)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return match.Match{}, storage.ErrNotFound
		}
		return match.Match{}, fmt.Errorf("get match %s: %w", id, err)
	}

	history, err := s.matchHistory(ctx, id)
	if err != nil {
		return match.Match{}, err
	}
	m.History = history
	return m, nil
}

// ListMatchesByPlayer returns matches where the player holds either
// seat, newest first.
func (s *Store) ListMatchesByPlayer(ctx context.Context, playerID string, activeOnly bool) ([]match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
	 WHERE (north_player_id = ? OR south_player_id = ?)`
	args := []any{playerID, playerID}
	if activeOnly {
		query += ` AND status = ?`
		args = append(args, match.StatusLabel(match.StatusActive))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	return s.listMatches(ctx, query, args...)
}

// ListCompletedMatches returns every completed match, newest first.
func (s *Store) ListCompletedMatches(ctx context.Context) ([]match.Match, error) {
	return s.listMatches(
		ctx,
		`SELECT `+matchColumns+` FROM matches WHERE status = ? ORDER BY ended_at DESC, id DESC`,
		match.StatusLabel(match.StatusCompleted),
	)
}

// UpdateMatch writes a match back, matching on expectedVersion.
func (s *Store) UpdateMatch(ctx context.Context, m match.Match, expectedVersion int64) error {
	board, err := boardToJSON(m.State.Board)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
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
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	return s.resolveMatchWriteMiss(ctx, result, m.ID)
}

// resolveMatchWriteMiss distinguishes a version conflict from a
// missing match when a guarded UPDATE touched no rows.
func (s *Store) resolveMatchWriteMiss(ctx context.Context, result sql.Result, matchID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("match update rows affected %s: %w", matchID, err)
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM matches WHERE id = ?`, matchID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check match %s: %w", matchID, err)
	}
	return storage.ErrVersionConflict
}

func (s *Store) listMatches(ctx context.Context, query string, args ...any) ([]match.Match, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []match.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}

	for i := range matches {
		history, err := s.matchHistory(ctx, matches[i].ID)
		if err != nil {
			return nil, err
		}
		matches[i].History = history
	}
	return matches, nil
}

func (s *Store) matchHistory(ctx context.Context, matchID string) ([]int, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT house FROM match_moves WHERE match_id = ? ORDER BY seq`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list moves for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var history []int
	for rows.Next() {
		var house int
		if err := rows.Scan(&house); err != nil {
			return nil, fmt.Errorf("scan move row: %w", err)
		}
		history = append(history, house)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate move rows: %w", err)
	}
	return history, nil
}

func scanMatch(row rowScanner) (match.Match, error) {
	var m match.Match
	var nextLabel, boardJSON, statusLabel string
	var southScore, northScore, endedAt sql.NullInt64
	var createdAt, updatedAt int64
	if err := row.Scan(
		&m.ID,
		&m.NorthPlayerID,
		&m.SouthPlayerID,
		&nextLabel,
		&boardJSON,
		&statusLabel,
		&southScore,
		&northScore,
		&m.Version,
		&createdAt,
		&updatedAt,
		&endedAt,
	); err != nil {
		return match.Match{}, err
	}

	next, err := kalah.PlayerFromLabel(nextLabel)
	if err != nil {
		return match.Match{}, fmt.Errorf("match %s: %w", m.ID, err)
	}
	board, err := boardFromJSON(boardJSON)
	if err != nil {
		return match.Match{}, fmt.Errorf("match %s: %w", m.ID, err)
	}
	status, err := match.StatusFromLabel(statusLabel)
	if err != nil {
		return match.Match{}, fmt.Errorf("match %s: %w", m.ID, err)
	}

	m.State = kalah.GameState{Next: next, Board: board}
	m.Status = status
	m.SouthScore = fromNullInt(southScore)
	m.NorthScore = fromNullInt(northScore)
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	m.EndedAt = fromNullMillis(endedAt)
	return m, nil
}
