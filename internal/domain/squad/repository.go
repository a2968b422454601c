package squad

import (
	"context"
	"errors"
)

// ErrVersionConflict reports a write carrying a stale squad version.
var ErrVersionConflict = errors.New("squad version conflict")

// Repository persists squads. Upsert rejects writes whose Version does
// not follow the stored one with ErrVersionConflict.
type Repository interface {
	GetByUserAndLeague(ctx context.Context, userID, leagueID string) (Squad, bool, error)
	Upsert(ctx context.Context, item Squad) error
}
