package service

import (
	"context"
	"fmt"

	"github.com/openkalah/server/internal/game/domain/player"
)

// CreatePlayer registers a new player with a unique name.
func (s *Service) CreatePlayer(ctx context.Context, name, email string) (player.Player, error) {
	p, err := player.Create(name, email, s.clock, s.idGenerator)
	if err != nil {
		return player.Player{}, err
	}
	if err := s.stores.Players.PutPlayer(ctx, p); err != nil {
		return player.Player{}, err
	}
	return p, nil
}

// GetPlayer fetches a player's record by name.
func (s *Service) GetPlayer(ctx context.Context, name string) (player.Player, error) {
	return s.stores.Players.GetPlayerByName(ctx, name)
}

// Rankings derives the current standings from every player record,
// ordered by win/loss ratio with draws breaking ties.
func (s *Service) Rankings(ctx context.Context) ([]player.Ranking, error) {
	players, err := s.stores.Players.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players for rankings: %w", err)
	}
	return player.Rank(players), nil
}
