package memory

import (
	"context"
	"sync"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

type PlayerRepository struct {
	mu            sync.RWMutex
	byLeague      map[string][]player.Player
	indexByLeague map[string]map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		byLeague:      make(map[string][]player.Player),
		indexByLeague: make(map[string]map[string]player.Player),
	}
	for _, p := range players {
		r.store(p)
	}

	return r
}

func (r *PlayerRepository) List(_ context.Context, leagueID string, filter player.ListFilter) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byLeague[leagueID]
	out := make([]player.Player, 0, len(items))
	for _, p := range items {
		if !matchesFilter(p, filter) {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}

	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, leagueID string, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.indexByLeague[leagueID]
	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := index[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *PlayerRepository) UpsertBatch(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		r.store(p)
	}

	return nil
}

// store assumes r.mu is held (or exclusive access during construction).
func (r *PlayerRepository) store(p player.Player) {
	index, ok := r.indexByLeague[p.LeagueID]
	if !ok {
		index = make(map[string]player.Player)
		r.indexByLeague[p.LeagueID] = index
	}

	if _, exists := index[p.ID]; exists {
		items := r.byLeague[p.LeagueID]
		for i := range items {
			if items[i].ID == p.ID {
				items[i] = p
				break
			}
		}
	} else {
		r.byLeague[p.LeagueID] = append(r.byLeague[p.LeagueID], p)
	}
	index[p.ID] = p
}

func matchesFilter(p player.Player, filter player.ListFilter) bool {
	if filter.Position != "" && p.Position != filter.Position {
		return false
	}
	if filter.TeamID != "" && p.TeamID != filter.TeamID {
		return false
	}
	if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
		return false
	}
	if filter.ActiveOnly && !p.IsActive {
		return false
	}

	return true
}
