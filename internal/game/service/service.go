// Package service exposes the game operations: player registration,
// match lifecycle, moves, histories, and rankings. It orchestrates the
// pure domain packages over the storage interfaces and renders the
// player-facing snapshot messages.
package service

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/openkalah/server/internal/game/domain/kalah"
	"github.com/openkalah/server/internal/game/domain/match"
	"github.com/openkalah/server/internal/game/storage"
	"github.com/openkalah/server/internal/platform/id"
	"github.com/openkalah/server/internal/platform/random"
)

// Player-facing snapshot messages, kept stable because clients key off
// them.
const (
	msgNewMatch       = "Good luck playing Kalah!"
	msgTimeToMove     = "Time to make a move!"
	msgAlreadyOver    = "Game already over."
	msgCanceled       = "Cannot move because Game has been canceled."
	msgNotParticipant = "Player not a participant in this game."
	msgOutOfTurn      = "Player moved out of turn."
	msgInvalidMove    = "Invalid move."
	msgMatchCanceled  = "Game successfully canceled."
	msgGameOverPrefix = "Game over! "
	msgGameOverDraw   = msgGameOverPrefix + "Draw!"
	turnMessageFormat = "%s player's turn. Enter an integer between %d and %d."
	winMessageFormat  = msgGameOverPrefix + "%s wins!"
)

// Service implements the game operations over injected stores. Clock,
// id generation, and the coin flip are injectable so tests stay
// deterministic.
type Service struct {
	stores      storage.Stores
	clock       func() time.Time
	idGenerator func() (string, error)
	coinFlip    func() (bool, error)
	tracer      trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides ID generation.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.idGenerator = gen
		}
	}
}

// WithCoinFlip overrides the starting-player coin flip.
func WithCoinFlip(flip func() (bool, error)) Option {
	return func(s *Service) {
		if flip != nil {
			s.coinFlip = flip
		}
	}
}

// New builds a Service over the given stores.
func New(stores storage.Stores, opts ...Option) *Service {
	s := &Service{
		stores:      stores,
		clock:       time.Now,
		idGenerator: id.NewID,
		coinFlip:    random.CoinFlip,
		tracer:      otel.Tracer("game.service"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// MatchSnapshot is the player-facing view of one match: identity,
// seats, whose turn it is, the board, lifecycle flags, terminal scores
// when present, and a message describing what just happened.
type MatchSnapshot struct {
	MatchID         string
	NorthPlayerName string
	SouthPlayerName string
	NextPlayer      string
	Board           [14]int
	Active          bool
	Completed       bool
	Canceled        bool
	SouthScore      *int
	NorthScore      *int
	Message         string
}

// snapshot renders a match with resolved player names and a message.
func snapshot(m match.Match, northName, southName, message string) MatchSnapshot {
	return MatchSnapshot{
		MatchID:         m.ID,
		NorthPlayerName: northName,
		SouthPlayerName: southName,
		NextPlayer:      m.State.Next.Label(),
		Board:           [14]int(m.State.Board),
		Active:          m.Status == match.StatusActive,
		Completed:       m.Status == match.StatusCompleted,
		Canceled:        m.Status == match.StatusCanceled,
		SouthScore:      m.SouthScore,
		NorthScore:      m.NorthScore,
		Message:         message,
	}
}

// turnMessage renders the prompt for the player on turn.
func turnMessage(next kalah.Player) string {
	low, high := next.HouseRange()
	return fmt.Sprintf(turnMessageFormat, next.Name(), low, high)
}
