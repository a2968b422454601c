package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/squad-engine/internal/domain/round"
	qb "github.com/matchdayhq/squad-engine/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

type roundTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	LeagueID   string     `db:"league_public_id"`
	Name       string     `db:"name"`
	StartAt    time.Time  `db:"start_at"`
	DeadlineAt time.Time  `db:"deadline_at"`
	EndAt      time.Time  `db:"end_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type roundInsertModel struct {
	PublicID   string    `db:"public_id"`
	LeagueID   string    `db:"league_public_id"`
	Name       string    `db:"name"`
	StartAt    time.Time `db:"start_at"`
	DeadlineAt time.Time `db:"deadline_at"`
	EndAt      time.Time `db:"end_at"`
}

func (r *RoundRepository) GetCurrent(ctx context.Context, leagueID string, now time.Time) (round.Round, bool, error) {
	query, args, err := qb.Select(
		"id",
		"public_id",
		"league_public_id",
		"name",
		"start_at",
		"deadline_at",
		"end_at",
		"created_at",
		"updated_at",
		"deleted_at",
	).From("rounds").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Expr("start_at <= ?", now),
			qb.Expr("end_at >= ?", now),
			qb.IsNull("deleted_at"),
		).
		OrderBy("start_at").
		Limit(1).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build select current round query: %w", err)
	}

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get current round: %w", err)
	}

	return round.Round{
		ID:         row.PublicID,
		LeagueID:   row.LeagueID,
		Name:       row.Name,
		StartAt:    row.StartAt,
		DeadlineAt: row.DeadlineAt,
		EndAt:      row.EndAt,
	}, true, nil
}

func (r *RoundRepository) Upsert(ctx context.Context, item round.Round) error {
	query, args, err := qb.InsertModel("rounds", roundInsertModel{
		PublicID:   item.ID,
		LeagueID:   item.LeagueID,
		Name:       item.Name,
		StartAt:    item.StartAt,
		DeadlineAt: item.DeadlineAt,
		EndAt:      item.EndAt,
	}, `
ON CONFLICT (public_id) DO UPDATE SET
    league_public_id = EXCLUDED.league_public_id,
    name = EXCLUDED.name,
    start_at = EXCLUDED.start_at,
    deadline_at = EXCLUDED.deadline_at,
    end_at = EXCLUDED.end_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert round %s query: %w", item.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert round %s: %w", item.ID, err)
	}

	return nil
}
