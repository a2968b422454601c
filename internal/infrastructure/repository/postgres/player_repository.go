package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	qb "github.com/matchdayhq/squad-engine/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"public_id",
	"league_public_id",
	"team_public_id",
	"name",
	"position",
	"price",
	"is_active",
	"external_ref",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context, leagueID string, filter player.ListFilter) ([]player.Player, error) {
	query, args, err := listPlayersQuery(leagueID, filter)
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	return playersFromRows(rows), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, leagueID string, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.In("public_id", stringSliceToAny(playerIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	return playersFromRows(rows), nil
}

func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for player upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertSuffix = `
ON CONFLICT (public_id) DO UPDATE SET
    league_public_id = EXCLUDED.league_public_id,
    team_public_id = EXCLUDED.team_public_id,
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    price = EXCLUDED.price,
    is_active = EXCLUDED.is_active,
    external_ref = EXCLUDED.external_ref,
    updated_at = NOW(),
    deleted_at = NULL`

	for _, item := range players {
		query, args, err := qb.InsertModel("players", playerInsertModel{
			PublicID:    item.ID,
			LeagueID:    item.LeagueID,
			TeamID:      item.TeamID,
			Name:        item.Name,
			Position:    string(item.Position),
			Price:       item.Price,
			IsActive:    item.IsActive,
			ExternalRef: item.ExternalRef,
		}, upsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert player %s query: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player upsert tx: %w", err)
	}

	return nil
}

func listPlayersQuery(leagueID string, filter player.ListFilter) (string, []any, error) {
	conditions := []qb.Condition{
		qb.Eq("league_public_id", leagueID),
		qb.IsNull("deleted_at"),
	}
	if filter.Position != "" {
		conditions = append(conditions, qb.Eq("position", string(filter.Position)))
	}
	if filter.TeamID != "" {
		conditions = append(conditions, qb.Eq("team_public_id", filter.TeamID))
	}
	if filter.MaxPrice > 0 {
		conditions = append(conditions, qb.Expr("price <= ?", filter.MaxPrice))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, qb.Eq("is_active", true))
	}

	builder := qb.Select(playerSelectColumns...).From("players").
		Where(conditions...).
		OrderBy("position", "price DESC", "id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	return builder.ToSQL()
}

func playersFromRows(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:          row.PublicID,
			LeagueID:    row.LeagueID,
			TeamID:      row.TeamID,
			Name:        row.Name,
			Position:    player.Position(row.Position),
			Price:       row.Price,
			IsActive:    row.IsActive,
			ExternalRef: row.ExternalRef,
		})
	}
	return out
}
