package round

import (
	"context"
	"time"
)

// Repository exposes round reference data.
type Repository interface {
	GetCurrent(ctx context.Context, leagueID string, now time.Time) (Round, bool, error)
	Upsert(ctx context.Context, item Round) error
}
