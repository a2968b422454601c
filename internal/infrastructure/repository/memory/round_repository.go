package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/round"
)

type RoundRepository struct {
	mu    sync.RWMutex
	items map[string][]round.Round
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	r := &RoundRepository{items: make(map[string][]round.Round)}
	for _, item := range rounds {
		r.items[item.LeagueID] = append(r.items[item.LeagueID], item)
	}

	return r
}

func (r *RoundRepository) GetCurrent(_ context.Context, leagueID string, now time.Time) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items[leagueID] {
		if item.Contains(now) {
			return item, true, nil
		}
	}

	return round.Round{}, false, nil
}

func (r *RoundRepository) Upsert(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.items[item.LeagueID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return nil
		}
	}
	r.items[item.LeagueID] = append(items, item)

	return nil
}
