// Package player holds participant records and the ranking derivation.
package player

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/openkalah/server/internal/platform/errors"
	"github.com/openkalah/server/internal/platform/id"
)

var (
	// ErrEmptyName indicates a missing player name.
	ErrEmptyName = apperrors.New(apperrors.CodePlayerNameEmpty, "player name is required")
	// ErrInvalidResult indicates a result outside win/loss/draw.
	ErrInvalidResult = apperrors.New(apperrors.CodeResultInvalid, "result must be -1, 0 or 1")
)

// Result classifies one completed match from a single player's side.
type Result int

const (
	// Loss counts against the player's record.
	Loss Result = -1
	// Draw counts for neither side.
	Draw Result = 0
	// Win counts toward the player's record.
	Win Result = 1
)

// Player is a participant record: identity plus the win/loss/draw
// counters that feed rankings.
type Player struct {
	ID        string
	Name      string
	Email     string
	Wins      int
	Losses    int
	Draws     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Create builds a new player record with a generated ID and timestamps.
// The name is required; email is optional.
func Create(name, email string, now func() time.Time, idGenerator func() (string, error)) (Player, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrEmptyName
	}

	playerID, err := idGenerator()
	if err != nil {
		return Player{}, fmt.Errorf("generate player id: %w", err)
	}

	createdAt := now().UTC()
	return Player{
		ID:        playerID,
		Name:      name,
		Email:     strings.TrimSpace(email),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// ApplyResult increments the counter matching result and bumps the
// update timestamp. Records mutate exactly once per completed match.
func ApplyResult(p Player, result Result, now func() time.Time) (Player, error) {
	if now == nil {
		now = time.Now
	}
	switch result {
	case Win:
		p.Wins++
	case Loss:
		p.Losses++
	case Draw:
		p.Draws++
	default:
		return Player{}, ErrInvalidResult
	}
	p.UpdatedAt = now().UTC()
	return p, nil
}

// WinLossRatio derives wins/(wins+losses) on read, never stored.
// Players with no decided games rank at 0.0 rather than dividing by
// zero.
func WinLossRatio(p Player) float64 {
	decided := p.Wins + p.Losses
	if decided == 0 {
		return 0.0
	}
	return float64(p.Wins) / float64(decided)
}
