// Package match implements the per-game session state machine: turn
// ownership, move history, lifecycle transitions, and result
// classification for completed games.
package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/openkalah/server/internal/game/domain/kalah"
	"github.com/openkalah/server/internal/game/domain/player"
	apperrors "github.com/openkalah/server/internal/platform/errors"
	"github.com/openkalah/server/internal/platform/id"
)

// Status describes the lifecycle of a match.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusActive indicates the match is in play.
	StatusActive
	// StatusCompleted indicates the match finished with terminal scores.
	StatusCompleted
	// StatusCanceled indicates the match was abandoned before completion.
	StatusCanceled
)

var (
	// ErrAlreadyCompleted indicates a mutation attempted on a finished match.
	ErrAlreadyCompleted = apperrors.New(apperrors.CodeMatchAlreadyCompleted, "match has already finished")
	// ErrAlreadyCanceled indicates a mutation attempted on a canceled match.
	ErrAlreadyCanceled = apperrors.New(apperrors.CodeMatchAlreadyCanceled, "match has been canceled")
	// ErrNotParticipant indicates the requester plays in neither seat.
	ErrNotParticipant = apperrors.New(apperrors.CodeMatchNotParticipant, "player is not a participant in this match")
	// ErrOutOfTurn indicates a participant moved when it was not their turn.
	ErrOutOfTurn = apperrors.New(apperrors.CodeMatchOutOfTurn, "player moved out of turn")
)

// Match is one Kalah game between two players. The engine state is
// replaced wholesale on every move; History records the houses chosen
// in play order, which is sufficient to replay State from a fresh
// board.
type Match struct {
	ID            string
	NorthPlayerID string
	SouthPlayerID string
	State         kalah.GameState
	Status        Status
	History       []int
	SouthScore    *int
	NorthScore    *int
	// Version guards optimistic concurrency at the storage layer. It
	// increments on every accepted mutation.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	EndedAt   *time.Time
}

// Active reports whether the match still accepts moves. Derived, never
// stored, so it cannot drift from Status.
func (m Match) Active() bool {
	return m.Status == StatusActive
}

// PlayerToMoveID returns the participant whose turn it is.
func (m Match) PlayerToMoveID() string {
	if m.State.Next == kalah.North {
		return m.NorthPlayerID
	}
	return m.SouthPlayerID
}

// Create starts a new match between two players. northStarts should
// come from a fair coin flip; both participant references are opaque to
// the engine.
func Create(northPlayerID, southPlayerID string, northStarts bool, now func() time.Time, idGenerator func() (string, error)) (Match, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if strings.TrimSpace(northPlayerID) == "" || strings.TrimSpace(southPlayerID) == "" {
		return Match{}, apperrors.New(apperrors.CodePlayerNotFound, "both participants are required")
	}

	matchID, err := idGenerator()
	if err != nil {
		return Match{}, fmt.Errorf("generate match id: %w", err)
	}

	createdAt := now().UTC()
	return Match{
		ID:            matchID,
		NorthPlayerID: northPlayerID,
		SouthPlayerID: southPlayerID,
		State:         kalah.NewGame(northStarts),
		Status:        StatusActive,
		Version:       1,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

// MoveOutcome reports what an accepted move did beyond the state swap.
type MoveOutcome struct {
	// Completed is true when the move ended the game.
	Completed bool
	// NextPlayerID is the reminder target when the game continues.
	NextPlayerID string
	// NorthResult and SouthResult classify the game for each record
	// when Completed is true.
	NorthResult player.Result
	SouthResult player.Result
}

// terminalError maps a non-active status to its distinct rejection.
func terminalError(status Status) error {
	switch status {
	case StatusCompleted:
		return ErrAlreadyCompleted
	case StatusCanceled:
		return ErrAlreadyCanceled
	default:
		return apperrors.New(apperrors.CodeInternalInvariant, "match status is unspecified")
	}
}

// ApplyMove validates and applies one move by requesterID.
//
// Preconditions are checked in order, each with a distinct failure:
// the match must be active, the requester must hold a seat, it must be
// the requester's turn, and the house must pass engine validation. Any
// rejection returns the match unchanged.
//
// On success the history gains one entry, the game state is replaced,
// and the version increments. When the move ends the game the residual
// houses are swept, terminal scores recorded, and the per-player
// results classified exactly once.
func ApplyMove(m Match, requesterID string, house int, now func() time.Time) (Match, MoveOutcome, error) {
	if now == nil {
		now = time.Now
	}

	if m.Status != StatusActive {
		return m, MoveOutcome{}, terminalError(m.Status)
	}
	if requesterID != m.NorthPlayerID && requesterID != m.SouthPlayerID {
		return m, MoveOutcome{}, ErrNotParticipant
	}
	if requesterID != m.PlayerToMoveID() {
		return m, MoveOutcome{}, ErrOutOfTurn
	}

	nextState, err := kalah.Move(m.State, house)
	if err != nil {
		return m, MoveOutcome{}, err
	}

	updated := m
	updated.State = nextState
	updated.History = append(append([]int(nil), m.History...), house)
	updated.Version = m.Version + 1
	updatedAt := now().UTC()
	updated.UpdatedAt = updatedAt

	swept, southScore, northScore, over := kalah.FinalScores(nextState.Board)
	if !over {
		return updated, MoveOutcome{NextPlayerID: updated.PlayerToMoveID()}, nil
	}

	updated.State.Board = swept
	updated.Status = StatusCompleted
	updated.SouthScore = &southScore
	updated.NorthScore = &northScore
	updated.EndedAt = &updatedAt

	outcome := MoveOutcome{Completed: true}
	switch kalah.Winner(southScore, northScore) {
	case kalah.North:
		outcome.NorthResult, outcome.SouthResult = player.Win, player.Loss
	case kalah.South:
		outcome.NorthResult, outcome.SouthResult = player.Loss, player.Win
	default:
		outcome.NorthResult, outcome.SouthResult = player.Draw, player.Draw
	}
	return updated, outcome, nil
}

// Cancel abandons an active match. Completed and already-canceled
// matches reject with distinct errors and no canceled match ever
// records results.
func Cancel(m Match, now func() time.Time) (Match, error) {
	if now == nil {
		now = time.Now
	}
	if m.Status != StatusActive {
		return m, terminalError(m.Status)
	}

	updated := m
	updated.Status = StatusCanceled
	updated.Version = m.Version + 1
	canceledAt := now().UTC()
	updated.UpdatedAt = canceledAt
	updated.EndedAt = &canceledAt
	return updated, nil
}

// StatusLabel returns a stable label for persisting a status.
func StatusLabel(status Status) string {
	switch status {
	case StatusActive:
		return "ACTIVE"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCanceled:
		return "CANCELED"
	default:
		return "UNSPECIFIED"
	}
}

// StatusFromLabel parses a persisted status label.
func StatusFromLabel(value string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "ACTIVE":
		return StatusActive, nil
	case "COMPLETED":
		return StatusCompleted, nil
	case "CANCELED":
		return StatusCanceled, nil
	default:
		return StatusUnspecified, fmt.Errorf("unknown match status %q", value)
	}
}

// Replay rebuilds the engine state by re-running the history from a
// fresh board with the given starting player. It validates that a
// persisted match is internally consistent.
func Replay(northStarts bool, history []int) (kalah.GameState, error) {
	state := kalah.NewGame(northStarts)
	for i, house := range history {
		next, err := kalah.Move(state, house)
		if err != nil {
			return kalah.GameState{}, fmt.Errorf("replay move %d (house %d): %w", i, house, err)
		}
		state = next
	}
	return state, nil
}
