package service

import (
	"context"
	"fmt"

	"github.com/openkalah/server/internal/game/domain/match"
	"github.com/openkalah/server/internal/game/domain/player"
)

// NewMatch starts a match between two registered players. The
// starting side is decided by a coin flip.
func (s *Service) NewMatch(ctx context.Context, northName, southName string) (MatchSnapshot, error) {
	north, err := s.stores.Players.GetPlayerByName(ctx, northName)
	if err != nil {
		return MatchSnapshot{}, fmt.Errorf("resolve north player %q: %w", northName, err)
	}
	south, err := s.stores.Players.GetPlayerByName(ctx, southName)
	if err != nil {
		return MatchSnapshot{}, fmt.Errorf("resolve south player %q: %w", southName, err)
	}

	northStarts, err := s.coinFlip()
	if err != nil {
		return MatchSnapshot{}, fmt.Errorf("flip starting player: %w", err)
	}

	m, err := match.Create(north.ID, south.ID, northStarts, s.clock, s.idGenerator)
	if err != nil {
		return MatchSnapshot{}, err
	}
	if err := s.stores.Matches.PutMatch(ctx, m); err != nil {
		return MatchSnapshot{}, fmt.Errorf("persist match %s: %w", m.ID, err)
	}
	return snapshot(m, north.Name, south.Name, msgNewMatch), nil
}

// GetMatch returns the current snapshot of a match.
func (s *Service) GetMatch(ctx context.Context, matchID string) (MatchSnapshot, error) {
	m, north, south, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return MatchSnapshot{}, err
	}
	message := ""
	if m.Active() {
		message = msgTimeToMove
	}
	return snapshot(m, north.Name, south.Name, message), nil
}

// CancelMatch abandons an active match.
func (s *Service) CancelMatch(ctx context.Context, matchID string) (MatchSnapshot, error) {
	m, north, south, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return MatchSnapshot{}, err
	}

	canceled, err := match.Cancel(m, s.clock)
	if err != nil {
		return MatchSnapshot{}, err
	}
	if err := s.stores.Matches.UpdateMatch(ctx, canceled, m.Version); err != nil {
		return MatchSnapshot{}, fmt.Errorf("persist cancellation of match %s: %w", m.ID, err)
	}
	return snapshot(canceled, north.Name, south.Name, msgMatchCanceled), nil
}

// ListPlayerMatches returns snapshots of a player's matches, newest
// first.
func (s *Service) ListPlayerMatches(ctx context.Context, playerName string, activeOnly bool) ([]MatchSnapshot, error) {
	p, err := s.stores.Players.GetPlayerByName(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("resolve player %q: %w", playerName, err)
	}
	matches, err := s.stores.Matches.ListMatchesByPlayer(ctx, p.ID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list matches for player %s: %w", p.ID, err)
	}
	return s.snapshotAll(ctx, matches)
}

// ListCompletedMatches returns snapshots of every finished match.
func (s *Service) ListCompletedMatches(ctx context.Context) ([]MatchSnapshot, error) {
	matches, err := s.stores.Matches.ListCompletedMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list completed matches: %w", err)
	}
	return s.snapshotAll(ctx, matches)
}

// MatchHistory returns the houses played so far, in play order.
func (s *Service) MatchHistory(ctx context.Context, matchID string) ([]int, error) {
	m, err := s.stores.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return m.History, nil
}

// loadMatch fetches a match and resolves both seat records.
func (s *Service) loadMatch(ctx context.Context, matchID string) (match.Match, player.Player, player.Player, error) {
	m, err := s.stores.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, player.Player{}, player.Player{}, err
	}
	north, err := s.stores.Players.GetPlayer(ctx, m.NorthPlayerID)
	if err != nil {
		return match.Match{}, player.Player{}, player.Player{}, fmt.Errorf("resolve north seat of match %s: %w", matchID, err)
	}
	south, err := s.stores.Players.GetPlayer(ctx, m.SouthPlayerID)
	if err != nil {
		return match.Match{}, player.Player{}, player.Player{}, fmt.Errorf("resolve south seat of match %s: %w", matchID, err)
	}
	return m, north, south, nil
}

func (s *Service) snapshotAll(ctx context.Context, matches []match.Match) ([]MatchSnapshot, error) {
	snapshots := make([]MatchSnapshot, 0, len(matches))
	for _, m := range matches {
		north, err := s.stores.Players.GetPlayer(ctx, m.NorthPlayerID)
		if err != nil {
			return nil, fmt.Errorf("resolve north seat of match %s: %w", m.ID, err)
		}
		south, err := s.stores.Players.GetPlayer(ctx, m.SouthPlayerID)
		if err != nil {
			return nil, fmt.Errorf("resolve south seat of match %s: %w", m.ID, err)
		}
		snapshots = append(snapshots, snapshot(m, north.Name, south.Name, ""))
	}
	return snapshots, nil
}
