package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	qb "github.com/matchdayhq/squad-engine/internal/platform/querybuilder"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

var squadSelectColumns = []string{
	"id",
	"public_id",
	"user_id",
	"league_public_id",
	"team_name",
	"formation",
	"budget_cap",
	"free_transfers_remaining",
	"wildcard_used",
	"wildcard_active_round_id",
	"version",
	"created_at",
	"updated_at",
	"deleted_at",
}

func (r *SquadRepository) GetByUserAndLeague(ctx context.Context, userID, leagueID string) (squad.Squad, bool, error) {
	query, args, err := qb.Select(squadSelectColumns...).From("squads").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return squad.Squad{}, false, fmt.Errorf("build select squad query: %w", err)
	}

	var row squadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return squad.Squad{}, false, nil
		}
		return squad.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}

	slots, err := r.listSlots(ctx, row.PublicID)
	if err != nil {
		return squad.Squad{}, false, err
	}

	return squad.Squad{
		ID:                     row.PublicID,
		UserID:                 row.UserID,
		LeagueID:               row.LeagueID,
		TeamName:               row.TeamName,
		Formation:              squad.Formation(row.Formation),
		BudgetCap:              row.BudgetCap,
		FreeTransfersRemaining: row.FreeTransfersRemaining,
		WildcardUsed:           row.WildcardUsed,
		WildcardActiveRoundID:  row.WildcardActiveRoundID,
		Version:                row.Version,
		Slots:                  slots,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}, true, nil
}

func (r *SquadRepository) listSlots(ctx context.Context, squadID string) ([]squad.Slot, error) {
	query, args, err := qb.Select(
		"player_public_id",
		"team_public_id",
		"position",
		"price",
		"is_starting",
		"bench_order",
		"is_captain",
		"is_vice_captain",
	).From("squad_slots").
		Where(
			qb.Eq("squad_public_id", squadID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select squad slots query: %w", err)
	}

	var rows []squadSlotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list squad slots: %w", err)
	}

	slots := make([]squad.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, squad.Slot{
			PlayerID:      row.PlayerID,
			TeamID:        row.TeamID,
			Position:      player.Position(row.Position),
			Price:         row.Price,
			IsStarting:    row.IsStarting,
			BenchOrder:    row.BenchOrder,
			IsCaptain:     row.IsCaptain,
			IsViceCaptain: row.IsViceCaptain,
		})
	}

	return slots, nil
}

// Upsert writes the squad guarded by its version: an insert expects no
// live row for the (user, league) pair, an update expects the stored
// version to be exactly one behind. Either miss reports
// squad.ErrVersionConflict so the caller can re-read and retry.
func (r *SquadRepository) Upsert(ctx context.Context, item squad.Squad) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for squad upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if item.Version <= 1 {
		err = r.insertSquad(ctx, tx, item)
	} else {
		err = r.updateSquad(ctx, tx, item)
	}
	if err != nil {
		return err
	}

	if err := r.replaceSlots(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit squad upsert tx: %w", err)
	}

	return nil
}

func (r *SquadRepository) insertSquad(ctx context.Context, tx *sqlx.Tx, item squad.Squad) error {
	query, args, err := qb.InsertModel("squads", squadInsertModel{
		PublicID:               item.ID,
		UserID:                 item.UserID,
		LeagueID:               item.LeagueID,
		TeamName:               item.TeamName,
		Formation:              string(item.Formation),
		BudgetCap:              item.BudgetCap,
		FreeTransfersRemaining: item.FreeTransfersRemaining,
		WildcardUsed:           item.WildcardUsed,
		WildcardActiveRoundID:  item.WildcardActiveRoundID,
		Version:                item.Version,
		CreatedAt:              item.CreatedAt,
		UpdatedAt:              item.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert squad query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert squad %s: %w", item.ID, squad.ErrVersionConflict)
		}
		return fmt.Errorf("insert squad %s: %w", item.ID, err)
	}

	return nil
}

func (r *SquadRepository) updateSquad(ctx context.Context, tx *sqlx.Tx, item squad.Squad) error {
	query, args, err := qb.Update("squads").
		Set("team_name", item.TeamName).
		Set("formation", string(item.Formation)).
		Set("budget_cap", item.BudgetCap).
		Set("free_transfers_remaining", item.FreeTransfersRemaining).
		Set("wildcard_used", item.WildcardUsed).
		Set("wildcard_active_round_id", item.WildcardActiveRoundID).
		Set("version", item.Version).
		Set("updated_at", item.UpdatedAt).
		Where(
			qb.Eq("public_id", item.ID),
			qb.Eq("version", item.Version-1),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update squad query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update squad %s: %w", item.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update squad %s result: %w", item.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update squad %s: %w", item.ID, squad.ErrVersionConflict)
	}

	return nil
}

func (r *SquadRepository) replaceSlots(ctx context.Context, tx *sqlx.Tx, item squad.Squad) error {
	clearQuery, clearArgs, err := qb.Update("squad_slots").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("squad_public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear squad slots query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("soft delete squad slots: %w", err)
	}

	for _, slot := range item.Slots {
		query, args, err := qb.InsertModel("squad_slots", squadSlotInsertModel{
			SquadID:       item.ID,
			PlayerID:      slot.PlayerID,
			TeamID:        slot.TeamID,
			Position:      string(slot.Position),
			Price:         slot.Price,
			IsStarting:    slot.IsStarting,
			BenchOrder:    slot.BenchOrder,
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
		}, `
ON CONFLICT (squad_public_id, player_public_id) DO UPDATE SET
    team_public_id = EXCLUDED.team_public_id,
    position = EXCLUDED.position,
    price = EXCLUDED.price,
    is_starting = EXCLUDED.is_starting,
    bench_order = EXCLUDED.bench_order,
    is_captain = EXCLUDED.is_captain,
    is_vice_captain = EXCLUDED.is_vice_captain,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert squad slot player=%s query: %w", slot.PlayerID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert squad slot player=%s: %w", slot.PlayerID, err)
		}
	}

	return nil
}
