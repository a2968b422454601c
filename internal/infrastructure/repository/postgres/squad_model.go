package postgres

import "time"

type squadTableModel struct {
	ID                     int64      `db:"id"`
	PublicID               string     `db:"public_id"`
	UserID                 string     `db:"user_id"`
	LeagueID               string     `db:"league_public_id"`
	TeamName               string     `db:"team_name"`
	Formation              string     `db:"formation"`
	BudgetCap              int64      `db:"budget_cap"`
	FreeTransfersRemaining int        `db:"free_transfers_remaining"`
	WildcardUsed           bool       `db:"wildcard_used"`
	WildcardActiveRoundID  string     `db:"wildcard_active_round_id"`
	Version                int64      `db:"version"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
	DeletedAt              *time.Time `db:"deleted_at"`
}

type squadInsertModel struct {
	PublicID               string    `db:"public_id"`
	UserID                 string    `db:"user_id"`
	LeagueID               string    `db:"league_public_id"`
	TeamName               string    `db:"team_name"`
	Formation              string    `db:"formation"`
	BudgetCap              int64     `db:"budget_cap"`
	FreeTransfersRemaining int       `db:"free_transfers_remaining"`
	WildcardUsed           bool      `db:"wildcard_used"`
	WildcardActiveRoundID  string    `db:"wildcard_active_round_id"`
	Version                int64     `db:"version"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

type squadSlotTableModel struct {
	PlayerID      string `db:"player_public_id"`
	TeamID        string `db:"team_public_id"`
	Position      string `db:"position"`
	Price         int64  `db:"price"`
	IsStarting    bool   `db:"is_starting"`
	BenchOrder    int    `db:"bench_order"`
	IsCaptain     bool   `db:"is_captain"`
	IsViceCaptain bool   `db:"is_vice_captain"`
}

type squadSlotInsertModel struct {
	SquadID       string `db:"squad_public_id"`
	PlayerID      string `db:"player_public_id"`
	TeamID        string `db:"team_public_id"`
	Position      string `db:"position"`
	Price         int64  `db:"price"`
	IsStarting    bool   `db:"is_starting"`
	BenchOrder    int    `db:"bench_order"`
	IsCaptain     bool   `db:"is_captain"`
	IsViceCaptain bool   `db:"is_vice_captain"`
}
