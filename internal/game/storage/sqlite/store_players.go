package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/openkalah/server/internal/game/domain/player"
	"github.com/openkalah/server/internal/game/storage"
)

const playerColumns = "id, name, email, wins, losses, draws, created_at, updated_at"

// PutPlayer inserts a new player row. Name uniqueness is enforced by
// the schema.
func (s *Store) PutPlayer(ctx context.Context, p player.Player) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO players (`+playerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		p.Email,
		p.Wins,
		p.Losses,
		p.Draws,
		toMillis(p.CreatedAt),
		toMillis(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrNameTaken
		}
		return fmt.Errorf("insert player %s: %w", p.ID, err)
	}
	return nil
}

// GetPlayer fetches a player by ID.
func (s *Store) GetPlayer(ctx context.Context, id string) (player.Player, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`,
		id,
	)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return player.Player{}, storage.ErrNotFound
		}
		return player.Player{}, fmt.Errorf("get player %s: %w", id, err)
	}
	return p, nil
}

// GetPlayerByName fetches a player by exact name.
func (s *Store) GetPlayerByName(ctx context.Context, name string) (player.Player, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+playerColumns+` FROM players WHERE name = ?`,
		name,
	)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return player.Player{}, storage.ErrNotFound
		}
		return player.Player{}, fmt.Errorf("get player by name %q: %w", name, err)
	}
	return p, nil
}

// ListPlayers returns every player ordered by name.
func (s *Store) ListPlayers(ctx context.Context) ([]player.Player, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []player.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}
	return players, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (player.Player, error) {
	var p player.Player
	var createdAt, updatedAt int64
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Wins,
		&p.Losses,
		&p.Draws,
		&createdAt,
		&updatedAt,
	); err != nil {
		return player.Player{}, err
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

// isUniqueViolation matches modernc.org/sqlite constraint errors
// without depending on driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "constraint failed: unique")
}
