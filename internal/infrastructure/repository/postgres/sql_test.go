package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("wrapped: %w", sql.ErrNoRows)) {
		t.Fatal("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("other failure")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})) {
		t.Fatal("expected true for unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("expected false for foreign key violation")
	}
	if isUniqueViolation(fmt.Errorf("plain error")) {
		t.Fatal("expected false for non-pq error")
	}
}

func TestListPlayersQuery(t *testing.T) {
	t.Run("league only", func(t *testing.T) {
		query, args, err := listPlayersQuery("league-1", player.ListFilter{})
		if err != nil {
			t.Fatalf("build query failed: %v", err)
		}
		want := "SELECT id, public_id, league_public_id, team_public_id, name, position, price, is_active, external_ref, created_at, updated_at, deleted_at FROM players WHERE league_public_id = $1 AND deleted_at IS NULL ORDER BY position, price DESC, id"
		if query != want {
			t.Fatalf("unexpected query:\n got: %s\nwant: %s", query, want)
		}
		if len(args) != 1 || args[0] != "league-1" {
			t.Fatalf("unexpected args: %v", args)
		}
	})

	t.Run("all filters", func(t *testing.T) {
		query, args, err := listPlayersQuery("league-1", player.ListFilter{
			Position:   player.PositionForward,
			TeamID:     "t7",
			MaxPrice:   85,
			ActiveOnly: true,
			Limit:      10,
		})
		if err != nil {
			t.Fatalf("build query failed: %v", err)
		}
		want := "SELECT id, public_id, league_public_id, team_public_id, name, position, price, is_active, external_ref, created_at, updated_at, deleted_at FROM players WHERE league_public_id = $1 AND deleted_at IS NULL AND position = $2 AND team_public_id = $3 AND price <= $4 AND is_active = $5 ORDER BY position, price DESC, id LIMIT 10"
		if query != want {
			t.Fatalf("unexpected query:\n got: %s\nwant: %s", query, want)
		}
		if len(args) != 5 {
			t.Fatalf("expected 5 args, got %v", args)
		}
		if args[3] != int64(85) {
			t.Fatalf("unexpected max price arg: %v", args[3])
		}
	})
}

func TestStringSliceToAny(t *testing.T) {
	out := stringSliceToAny([]string{"a", "b"})
	if len(out) != 2 || out[0] != "a" || out[1] != "b" {
		t.Fatalf("unexpected conversion: %v", out)
	}
}
