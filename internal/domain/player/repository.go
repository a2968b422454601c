package player

import "context"

// ListFilter narrows catalog listings. Zero values mean "no restriction".
type ListFilter struct {
	Position   Position
	TeamID     string
	MaxPrice   int64
	ActiveOnly bool
	Limit      int
}

// Repository exposes read access to the player catalog plus the upsert
// path used by catalog sync.
type Repository interface {
	List(ctx context.Context, leagueID string, filter ListFilter) ([]Player, error)
	GetByIDs(ctx context.Context, leagueID string, ids []string) ([]Player, error)
	UpsertBatch(ctx context.Context, players []Player) error
}
