package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	"github.com/matchdayhq/squad-engine/internal/infrastructure/repository/memory"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCatalog is a minimal league: two goalkeepers, five defenders, five
// midfielders and three forwards spread over eight clubs, total price 875.
func testCatalog() []player.Player {
	return []player.Player{
		{ID: "gk-1", LeagueID: "league-1", TeamID: "t1", Name: "Keeper One", Position: player.PositionGoalkeeper, Price: 45, IsActive: true},
		{ID: "gk-2", LeagueID: "league-1", TeamID: "t2", Name: "Keeper Two", Position: player.PositionGoalkeeper, Price: 40, IsActive: true},
		{ID: "def-1", LeagueID: "league-1", TeamID: "t1", Name: "Back One", Position: player.PositionDefender, Price: 50, IsActive: true},
		{ID: "def-2", LeagueID: "league-1", TeamID: "t2", Name: "Back Two", Position: player.PositionDefender, Price: 50, IsActive: true},
		{ID: "def-3", LeagueID: "league-1", TeamID: "t3", Name: "Back Three", Position: player.PositionDefender, Price: 50, IsActive: true},
		{ID: "def-4", LeagueID: "league-1", TeamID: "t4", Name: "Back Four", Position: player.PositionDefender, Price: 50, IsActive: true},
		{ID: "def-5", LeagueID: "league-1", TeamID: "t5", Name: "Back Five", Position: player.PositionDefender, Price: 50, IsActive: true},
		{ID: "mid-1", LeagueID: "league-1", TeamID: "t3", Name: "Engine One", Position: player.PositionMidfielder, Price: 60, IsActive: true},
		{ID: "mid-2", LeagueID: "league-1", TeamID: "t4", Name: "Engine Two", Position: player.PositionMidfielder, Price: 60, IsActive: true},
		{ID: "mid-3", LeagueID: "league-1", TeamID: "t5", Name: "Engine Three", Position: player.PositionMidfielder, Price: 60, IsActive: true},
		{ID: "mid-4", LeagueID: "league-1", TeamID: "t6", Name: "Engine Four", Position: player.PositionMidfielder, Price: 60, IsActive: true},
		{ID: "mid-5", LeagueID: "league-1", TeamID: "t7", Name: "Engine Five", Position: player.PositionMidfielder, Price: 60, IsActive: true},
		{ID: "fwd-1", LeagueID: "league-1", TeamID: "t6", Name: "Striker One", Position: player.PositionForward, Price: 90, IsActive: true},
		{ID: "fwd-2", LeagueID: "league-1", TeamID: "t7", Name: "Striker Two", Position: player.PositionForward, Price: 80, IsActive: true},
		{ID: "fwd-3", LeagueID: "league-1", TeamID: "t8", Name: "Striker Three", Position: player.PositionForward, Price: 70, IsActive: true},
		// Free agents for transfer scenarios.
		{ID: "fwd-4", LeagueID: "league-1", TeamID: "t9", Name: "Striker Four", Position: player.PositionForward, Price: 65, IsActive: true},
		{ID: "mid-6", LeagueID: "league-1", TeamID: "t9", Name: "Engine Six", Position: player.PositionMidfielder, Price: 55, IsActive: true},
		{ID: "fwd-5", LeagueID: "league-1", TeamID: "t8", Name: "Striker Five", Position: player.PositionForward, Price: 300, IsActive: true},
		{ID: "fwd-6", LeagueID: "league-1", TeamID: "t9", Name: "Striker Six", Position: player.PositionForward, Price: 60, IsActive: false},
	}
}

func draftIDs() []string {
	return []string{
		"gk-1", "gk-2",
		"def-1", "def-2", "def-3", "def-4", "def-5",
		"mid-1", "mid-2", "mid-3", "mid-4", "mid-5",
		"fwd-1", "fwd-2", "fwd-3",
	}
}

func newSquadService(squadRepo *memory.SquadRepository) *SquadService {
	return NewSquadService(
		memory.NewPlayerRepository(testCatalog()),
		squadRepo,
		squad.DefaultRules(),
		staticIDGenerator{id: "squad-001"},
		discardLogger(),
	)
}

func createTestSquad(t *testing.T, service *SquadService) squad.Squad {
	t.Helper()

	created, err := service.CreateSquad(t.Context(), CreateSquadInput{
		UserID:    "user-1",
		LeagueID:  "league-1",
		TeamName:  "The Gaffers",
		PlayerIDs: draftIDs(),
	})
	if err != nil {
		t.Fatalf("create squad failed: %v", err)
	}

	return created
}

func TestSquadService_CreateSquad(t *testing.T) {
	service := newSquadService(memory.NewSquadRepository())

	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created := createTestSquad(t, service)

	if created.ID != "squad-001" {
		t.Fatalf("unexpected squad id: %s", created.ID)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}
	if created.Formation != squad.DefaultFormation {
		t.Fatalf("expected default formation, got %s", created.Formation)
	}
	if len(created.Starters()) != 11 || len(created.Bench()) != 4 {
		t.Fatalf("unexpected lineup split: %d starters, %d bench", len(created.Starters()), len(created.Bench()))
	}
	if created.FreeTransfersRemaining != 1 {
		t.Fatalf("expected one free transfer on a fresh squad, got %d", created.FreeTransfersRemaining)
	}
	if created.BudgetRemaining() != 125 {
		t.Fatalf("expected budget remaining 125, got %d", created.BudgetRemaining())
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", created.CreatedAt, created.UpdatedAt)
	}
}

func TestSquadService_CreateSquad_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateSquadInput)
		targetErr error
	}{
		{
			name:      "missing team name",
			mutate:    func(in *CreateSquadInput) { in.TeamName = "  " },
			targetErr: ErrInvalidInput,
		},
		{
			name:      "wrong draft size",
			mutate:    func(in *CreateSquadInput) { in.PlayerIDs = in.PlayerIDs[:14] },
			targetErr: ErrInvalidInput,
		},
		{
			name:      "duplicate player id",
			mutate:    func(in *CreateSquadInput) { in.PlayerIDs[1] = "gk-1" },
			targetErr: ErrInvalidInput,
		},
		{
			name:      "unknown player id",
			mutate:    func(in *CreateSquadInput) { in.PlayerIDs[14] = "nobody" },
			targetErr: ErrInvalidInput,
		},
		{
			name:      "inactive player",
			mutate:    func(in *CreateSquadInput) { in.PlayerIDs[14] = "fwd-6" },
			targetErr: ErrInvalidInput,
		},
		{
			name:      "budget blown",
			mutate:    func(in *CreateSquadInput) { in.PlayerIDs[14] = "fwd-5" },
			targetErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newSquadService(memory.NewSquadRepository())

			input := CreateSquadInput{
				UserID:    "user-1",
				LeagueID:  "league-1",
				TeamName:  "The Gaffers",
				PlayerIDs: draftIDs(),
			}
			tt.mutate(&input)

			if _, err := service.CreateSquad(t.Context(), input); !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestSquadService_CreateSquad_RejectsSecondSquad(t *testing.T) {
	service := newSquadService(memory.NewSquadRepository())
	createTestSquad(t, service)

	_, err := service.CreateSquad(t.Context(), CreateSquadInput{
		UserID:    "user-1",
		LeagueID:  "league-1",
		TeamName:  "Second Attempt",
		PlayerIDs: draftIDs(),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSquadService_GetMySquad_NotFound(t *testing.T) {
	service := newSquadService(memory.NewSquadRepository())

	if _, err := service.GetMySquad(t.Context(), "user-1", "league-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSquadService_ChangeFormation(t *testing.T) {
	service := newSquadService(memory.NewSquadRepository())
	created := createTestSquad(t, service)

	updated, err := service.ChangeFormation(t.Context(), "user-1", "league-1", "4-3-3")
	if err != nil {
		t.Fatalf("change formation failed: %v", err)
	}
	if updated.Formation != squad.Formation433 {
		t.Fatalf("expected formation 4-3-3, got %s", updated.Formation)
	}
	if updated.Version != created.Version+1 {
		t.Fatalf("expected version bump to %d, got %d", created.Version+1, updated.Version)
	}

	if _, err := service.ChangeFormation(t.Context(), "user-1", "league-1", "6-3-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unsupported formation, got %v", err)
	}
}

func TestSquadService_UpdateTeamName(t *testing.T) {
	service := newSquadService(memory.NewSquadRepository())
	created := createTestSquad(t, service)

	updated, err := service.UpdateTeamName(t.Context(), "user-1", "league-1", "Renamed FC")
	if err != nil {
		t.Fatalf("update team name failed: %v", err)
	}
	if updated.TeamName != "Renamed FC" {
		t.Fatalf("unexpected team name: %s", updated.TeamName)
	}
	if updated.Version != created.Version+1 {
		t.Fatalf("expected version bump, got %d", updated.Version)
	}
}

func TestSquadService_SetCaptain(t *testing.T) {
	service := newSquadService(memory.NewSquadRepository())
	createTestSquad(t, service)

	updated, err := service.SetCaptain(t.Context(), "user-1", "league-1", "fwd-1")
	if err != nil {
		t.Fatalf("set captain failed: %v", err)
	}
	if updated.CaptainID() != "fwd-1" {
		t.Fatalf("unexpected captain: %s", updated.CaptainID())
	}

	// fwd-3 is on the bench under the default 4-4-2.
	if _, err := service.SetCaptain(t.Context(), "user-1", "league-1", "fwd-3"); !errors.Is(err, squad.ErrPlayerNotStarting) {
		t.Fatalf("expected ErrPlayerNotStarting, got %v", err)
	}
}

func TestSquadService_SwapStarterForBench(t *testing.T) {
	service := newSquadService(memory.NewSquadRepository())
	createTestSquad(t, service)

	updated, err := service.SwapStarterForBench(t.Context(), "user-1", "league-1", "fwd-1", "fwd-3")
	if err != nil {
		t.Fatalf("bench swap failed: %v", err)
	}

	found := false
	for _, slot := range updated.Starters() {
		if slot.PlayerID == "fwd-3" {
			found = true
		}
		if slot.PlayerID == "fwd-1" {
			t.Fatal("demoted player still in the starting lineup")
		}
	}
	if !found {
		t.Fatal("promoted player missing from the starting lineup")
	}

	if _, err := service.SwapStarterForBench(t.Context(), "user-1", "league-1", "fwd-2", "fwd-2"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for identical ids, got %v", err)
	}
}

func TestSquadService_StaleVersionConflict(t *testing.T) {
	squadRepo := memory.NewSquadRepository()
	service := newSquadService(squadRepo)
	created := createTestSquad(t, service)

	// A concurrent writer commits first; replaying a write on top of the
	// old snapshot must be rejected.
	stale := created.Clone()
	if _, err := service.UpdateTeamName(t.Context(), "user-1", "league-1", "Winner FC"); err != nil {
		t.Fatalf("first rename failed: %v", err)
	}

	stale.TeamName = "Loser FC"
	stale.Version++
	if err := squadRepo.Upsert(context.Background(), stale); !errors.Is(err, squad.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}
