package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/platform/cache"
)

type PlayerService struct {
	playerRepo player.Repository
	listCache  *cache.Store
}

func NewPlayerService(playerRepo player.Repository, listCache *cache.Store) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		listCache:  listCache,
	}
}

func (s *PlayerService) ListPlayers(ctx context.Context, leagueID string, filter player.ListFilter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if filter.Position != "" {
		if _, ok := player.AllPositions[filter.Position]; !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, filter.Position)
		}
	}
	if filter.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: max price cannot be negative", ErrInvalidInput)
	}

	if s.listCache == nil {
		return s.listPlayers(ctx, leagueID, filter)
	}

	key := playerListCacheKey(leagueID, filter)
	value, err := s.listCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.listPlayers(ctx, leagueID, filter)
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]player.Player)
	if !ok {
		return s.listPlayers(ctx, leagueID, filter)
	}

	return items, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, leagueID, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	playerID = strings.TrimSpace(playerID)
	if leagueID == "" {
		return player.Player{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	items, err := s.playerRepo.GetByIDs(ctx, leagueID, []string{playerID})
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if len(items) == 0 {
		return player.Player{}, fmt.Errorf("%w: player=%s league=%s", ErrNotFound, playerID, leagueID)
	}

	return items[0], nil
}

// InvalidateCatalog drops cached listings after a sync refresh.
func (s *PlayerService) InvalidateCatalog(ctx context.Context, leagueID string) {
	if s.listCache == nil {
		return
	}
	s.listCache.DeletePrefix(ctx, "players:"+strings.TrimSpace(leagueID)+":")
}

func (s *PlayerService) listPlayers(ctx context.Context, leagueID string, filter player.ListFilter) ([]player.Player, error) {
	items, err := s.playerRepo.List(ctx, leagueID, filter)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return items, nil
}

func playerListCacheKey(leagueID string, filter player.ListFilter) string {
	return fmt.Sprintf("players:%s:%s:%s:%d:%t:%d",
		leagueID, filter.Position, filter.TeamID, filter.MaxPrice, filter.ActiveOnly, filter.Limit)
}
