package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/round"
)

type RoundService struct {
	roundRepo round.Repository
	now       func() time.Time
}

func NewRoundService(roundRepo round.Repository) *RoundService {
	return &RoundService{
		roundRepo: roundRepo,
		now:       time.Now,
	}
}

func (s *RoundService) CurrentRound(ctx context.Context, leagueID string) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.CurrentRound")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return round.Round{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.roundRepo.GetCurrent(ctx, leagueID, s.now().UTC())
	if err != nil {
		return round.Round{}, fmt.Errorf("get current round: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: no active round for league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}
