package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/matchdayhq/squad-engine/internal/domain/round"
	roundmock "github.com/matchdayhq/squad-engine/internal/mocks/domain/round"
)

func TestRoundService_CurrentRound_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roundRepo := roundmock.NewRepository(t)

	service := NewRoundService(roundRepo)
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	expected := round.Round{
		ID:         "round-1",
		LeagueID:   "league-1",
		Name:       "Round 1",
		StartAt:    now.Add(-24 * time.Hour),
		DeadlineAt: now.Add(4 * time.Hour),
		EndAt:      now.Add(48 * time.Hour),
	}

	roundRepo.
		On("GetCurrent", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "league-1", now).
		Return(expected, true, nil).
		Once()

	got, err := service.CurrentRound(ctx, "league-1")
	if err != nil {
		t.Fatalf("current round: %v", err)
	}
	if got.ID != expected.ID {
		t.Fatalf("unexpected round id: got=%s want=%s", got.ID, expected.ID)
	}
}

func TestRoundService_CurrentRound_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roundRepo := roundmock.NewRepository(t)

	service := NewRoundService(roundRepo)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	roundRepo.
		On("GetCurrent", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "league-1", now).
		Return(round.Round{}, false, nil).
		Once()

	_, err := service.CurrentRound(ctx, "league-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
