package memory

import (
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/round"
)

const LeagueIDWorldCup = "wc-2026"

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "wc-gk-01", LeagueID: LeagueIDWorldCup, TeamID: "arg", Name: "Emiliano Martinez", Position: player.PositionGoalkeeper, Price: 55, IsActive: true},
		{ID: "wc-gk-02", LeagueID: LeagueIDWorldCup, TeamID: "bra", Name: "Alisson Becker", Position: player.PositionGoalkeeper, Price: 55, IsActive: true},
		{ID: "wc-gk-03", LeagueID: LeagueIDWorldCup, TeamID: "eng", Name: "Jordan Pickford", Position: player.PositionGoalkeeper, Price: 45, IsActive: true},
		{ID: "wc-gk-04", LeagueID: LeagueIDWorldCup, TeamID: "por", Name: "Diogo Costa", Position: player.PositionGoalkeeper, Price: 45, IsActive: true},
		{ID: "wc-def-01", LeagueID: LeagueIDWorldCup, TeamID: "fra", Name: "Theo Hernandez", Position: player.PositionDefender, Price: 60, IsActive: true},
		{ID: "wc-def-02", LeagueID: LeagueIDWorldCup, TeamID: "ned", Name: "Virgil van Dijk", Position: player.PositionDefender, Price: 65, IsActive: true},
		{ID: "wc-def-03", LeagueID: LeagueIDWorldCup, TeamID: "bra", Name: "Marquinhos", Position: player.PositionDefender, Price: 55, IsActive: true},
		{ID: "wc-def-04", LeagueID: LeagueIDWorldCup, TeamID: "eng", Name: "John Stones", Position: player.PositionDefender, Price: 55, IsActive: true},
		{ID: "wc-def-05", LeagueID: LeagueIDWorldCup, TeamID: "ger", Name: "Antonio Rudiger", Position: player.PositionDefender, Price: 55, IsActive: true},
		{ID: "wc-def-06", LeagueID: LeagueIDWorldCup, TeamID: "esp", Name: "Dani Carvajal", Position: player.PositionDefender, Price: 50, IsActive: true},
		{ID: "wc-def-07", LeagueID: LeagueIDWorldCup, TeamID: "por", Name: "Diogo Dalot", Position: player.PositionDefender, Price: 45, IsActive: true},
		{ID: "wc-mid-01", LeagueID: LeagueIDWorldCup, TeamID: "eng", Name: "Jude Bellingham", Position: player.PositionMidfielder, Price: 90, IsActive: true},
		{ID: "wc-mid-02", LeagueID: LeagueIDWorldCup, TeamID: "ger", Name: "Jamal Musiala", Position: player.PositionMidfielder, Price: 80, IsActive: true},
		{ID: "wc-mid-03", LeagueID: LeagueIDWorldCup, TeamID: "esp", Name: "Pedri", Position: player.PositionMidfielder, Price: 75, IsActive: true},
		{ID: "wc-mid-04", LeagueID: LeagueIDWorldCup, TeamID: "por", Name: "Vitinha", Position: player.PositionMidfielder, Price: 65, IsActive: true},
		{ID: "wc-mid-05", LeagueID: LeagueIDWorldCup, TeamID: "arg", Name: "Enzo Fernandez", Position: player.PositionMidfielder, Price: 70, IsActive: true},
		{ID: "wc-mid-06", LeagueID: LeagueIDWorldCup, TeamID: "fra", Name: "Aurelien Tchouameni", Position: player.PositionMidfielder, Price: 65, IsActive: true},
		{ID: "wc-mid-07", LeagueID: LeagueIDWorldCup, TeamID: "ned", Name: "Frenkie de Jong", Position: player.PositionMidfielder, Price: 70, IsActive: true},
		{ID: "wc-fwd-01", LeagueID: LeagueIDWorldCup, TeamID: "fra", Name: "Kylian Mbappe", Position: player.PositionForward, Price: 110, IsActive: true},
		{ID: "wc-fwd-02", LeagueID: LeagueIDWorldCup, TeamID: "arg", Name: "Lionel Messi", Position: player.PositionForward, Price: 105, IsActive: true},
		{ID: "wc-fwd-03", LeagueID: LeagueIDWorldCup, TeamID: "eng", Name: "Harry Kane", Position: player.PositionForward, Price: 100, IsActive: true},
		{ID: "wc-fwd-04", LeagueID: LeagueIDWorldCup, TeamID: "bra", Name: "Vinicius Junior", Position: player.PositionForward, Price: 100, IsActive: true},
		{ID: "wc-fwd-05", LeagueID: LeagueIDWorldCup, TeamID: "por", Name: "Cristiano Ronaldo", Position: player.PositionForward, Price: 90, IsActive: true},
		{ID: "wc-fwd-06", LeagueID: LeagueIDWorldCup, TeamID: "ned", Name: "Cody Gakpo", Position: player.PositionForward, Price: 80, IsActive: true},
	}
}

func SeedRounds() []round.Round {
	return []round.Round{
		{
			ID:         "wc-2026-md1",
			LeagueID:   LeagueIDWorldCup,
			Name:       "Group Stage Matchday 1",
			StartAt:    time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC),
			DeadlineAt: time.Date(2026, 6, 11, 16, 0, 0, 0, time.UTC),
			EndAt:      time.Date(2026, 6, 17, 23, 59, 59, 0, time.UTC),
		},
		{
			ID:         "wc-2026-md2",
			LeagueID:   LeagueIDWorldCup,
			Name:       "Group Stage Matchday 2",
			StartAt:    time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC),
			DeadlineAt: time.Date(2026, 6, 18, 16, 0, 0, 0, time.UTC),
			EndAt:      time.Date(2026, 6, 23, 23, 59, 59, 0, time.UTC),
		},
		{
			ID:         "wc-2026-md3",
			LeagueID:   LeagueIDWorldCup,
			Name:       "Group Stage Matchday 3",
			StartAt:    time.Date(2026, 6, 24, 0, 0, 0, 0, time.UTC),
			DeadlineAt: time.Date(2026, 6, 24, 16, 0, 0, 0, time.UTC),
			EndAt:      time.Date(2026, 6, 27, 23, 59, 59, 0, time.UTC),
		},
	}
}
