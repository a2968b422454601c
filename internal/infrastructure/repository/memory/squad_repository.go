package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchdayhq/squad-engine/internal/domain/squad"
)

type SquadRepository struct {
	mu    sync.RWMutex
	items map[string]squad.Squad
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{items: make(map[string]squad.Squad)}
}

func (r *SquadRepository) GetByUserAndLeague(_ context.Context, userID, leagueID string) (squad.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[squadKey(userID, leagueID)]
	if !ok {
		return squad.Squad{}, false, nil
	}

	return item.Clone(), true, nil
}

// Upsert stores the squad. A write whose version does not directly follow
// the stored one means the caller mutated a stale snapshot.
func (r *SquadRepository) Upsert(_ context.Context, item squad.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := squadKey(item.UserID, item.LeagueID)
	if stored, ok := r.items[key]; ok && item.Version != stored.Version+1 {
		return fmt.Errorf("%w: have %d, got %d", squad.ErrVersionConflict, stored.Version, item.Version)
	}

	r.items[key] = item.Clone()
	return nil
}

func squadKey(userID, leagueID string) string {
	return userID + "::" + leagueID
}
