package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/round"
	"github.com/matchdayhq/squad-engine/internal/domain/squad"
)

// TransferPenaltyEvent is handed to the scoring settlement queue whenever a
// committed transfer carries a points penalty.
type TransferPenaltyEvent struct {
	SquadID     string
	UserID      string
	LeagueID    string
	RoundID     string
	PlayerOutID string
	PlayerInID  string
	Points      int
	OccurredAt  time.Time
}

// PenaltyEventPublisher delivers penalty events downstream. Publishing is
// best effort: a committed transfer is never rolled back on publish failure.
type PenaltyEventPublisher interface {
	PublishTransferPenalty(ctx context.Context, event TransferPenaltyEvent) error
}

// MakeTransferInput is the incoming payload for a catalog swap.
type MakeTransferInput struct {
	UserID      string
	LeagueID    string
	PlayerOutID string
	PlayerInID  string
}

// TransferOutcome reports the committed squad and how the swap was paid for.
type TransferOutcome struct {
	Squad squad.Squad
	Cost  squad.TransferCost
}

type TransferService struct {
	playerRepo player.Repository
	roundRepo  round.Repository
	squadRepo  squad.Repository
	rules      squad.Rules
	events     PenaltyEventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewTransferService(
	playerRepo player.Repository,
	roundRepo round.Repository,
	squadRepo squad.Repository,
	rules squad.Rules,
	logger *slog.Logger,
) *TransferService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TransferService{
		playerRepo: playerRepo,
		roundRepo:  roundRepo,
		squadRepo:  squadRepo,
		rules:      rules,
		logger:     logger,
		now:        time.Now,
	}
}

// SetPenaltyPublisher wires the optional scoring settlement queue.
func (s *TransferService) SetPenaltyPublisher(publisher PenaltyEventPublisher) {
	s.events = publisher
}

func (s *TransferService) MakeTransfer(ctx context.Context, input MakeTransferInput) (TransferOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.MakeTransfer")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.PlayerOutID = strings.TrimSpace(input.PlayerOutID)
	input.PlayerInID = strings.TrimSpace(input.PlayerInID)

	if input.UserID == "" || input.LeagueID == "" {
		return TransferOutcome{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if input.PlayerOutID == "" || input.PlayerInID == "" {
		return TransferOutcome{}, fmt.Errorf("%w: player_out_id and player_in_id are required", ErrInvalidInput)
	}
	if input.PlayerOutID == input.PlayerInID {
		return TransferOutcome{}, fmt.Errorf("%w: player_out_id and player_in_id must differ", ErrInvalidInput)
	}

	currentRound, err := s.openRound(ctx, input.LeagueID)
	if err != nil {
		return TransferOutcome{}, err
	}

	current, exists, err := s.squadRepo.GetByUserAndLeague(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return TransferOutcome{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return TransferOutcome{}, fmt.Errorf("%w: squad not found", ErrNotFound)
	}

	incoming, err := s.incomingPlayer(ctx, input.LeagueID, input.PlayerInID)
	if err != nil {
		return TransferOutcome{}, err
	}

	result, err := squad.Swap(current, input.PlayerOutID, incoming, s.rules, current.WildcardActiveIn(currentRound.ID))
	if err != nil {
		return TransferOutcome{}, err
	}

	committed := result.Squad
	committed.Version++
	committed.UpdatedAt = s.now().UTC()

	if err := s.squadRepo.Upsert(ctx, committed); err != nil {
		if errors.Is(err, squad.ErrVersionConflict) {
			return TransferOutcome{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return TransferOutcome{}, fmt.Errorf("persist squad: %w", err)
	}

	s.logger.InfoContext(ctx, "transfer committed",
		"user_id", input.UserID,
		"league_id", input.LeagueID,
		"player_out", input.PlayerOutID,
		"player_in", input.PlayerInID,
		"cost", string(result.Cost.Kind),
		"free_transfers_remaining", committed.FreeTransfersRemaining,
	)

	if result.Cost.Kind == squad.TransferCostPenalized {
		s.publishPenalty(ctx, committed, currentRound, input, result.Cost.Points)
	}

	return TransferOutcome{Squad: committed, Cost: result.Cost}, nil
}

func (s *TransferService) ActivateWildcard(ctx context.Context, userID, leagueID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.ActivateWildcard")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return squad.Squad{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	currentRound, err := s.openRound(ctx, leagueID)
	if err != nil {
		return squad.Squad{}, err
	}

	current, exists, err := s.squadRepo.GetByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return squad.Squad{}, fmt.Errorf("%w: squad not found", ErrNotFound)
	}

	activated, err := squad.ActivateWildcard(current, currentRound.ID)
	if err != nil {
		return squad.Squad{}, err
	}

	activated.Version++
	activated.UpdatedAt = s.now().UTC()

	if err := s.squadRepo.Upsert(ctx, activated); err != nil {
		if errors.Is(err, squad.ErrVersionConflict) {
			return squad.Squad{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return squad.Squad{}, fmt.Errorf("persist squad: %w", err)
	}

	s.logger.InfoContext(ctx, "wildcard activated",
		"user_id", userID,
		"league_id", leagueID,
		"squad_id", activated.ID,
		"round_id", currentRound.ID,
	)

	return activated, nil
}

// openRound gates transfers on the current round's deadline. No active
// round also closes the window: transfers are only meaningful inside one.
func (s *TransferService) openRound(ctx context.Context, leagueID string) (round.Round, error) {
	now := s.now().UTC()
	item, exists, err := s.roundRepo.GetCurrent(ctx, leagueID, now)
	if err != nil {
		return round.Round{}, fmt.Errorf("get current round: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: no active round for league=%s", ErrTransferWindowClosed, leagueID)
	}
	if !item.TransferWindowOpen(now) {
		return round.Round{}, fmt.Errorf("%w: deadline %s has passed", ErrTransferWindowClosed, item.DeadlineAt.Format(time.RFC3339))
	}

	return item, nil
}

func (s *TransferService) incomingPlayer(ctx context.Context, leagueID, playerID string) (player.Player, error) {
	items, err := s.playerRepo.GetByIDs(ctx, leagueID, []string{playerID})
	if err != nil {
		return player.Player{}, fmt.Errorf("get incoming player: %w", err)
	}
	if len(items) == 0 {
		return player.Player{}, fmt.Errorf("%w: player=%s league=%s", ErrNotFound, playerID, leagueID)
	}
	if !items[0].IsActive {
		return player.Player{}, fmt.Errorf("%w: player %s is not available for selection", ErrInvalidInput, playerID)
	}

	return items[0], nil
}

func (s *TransferService) publishPenalty(ctx context.Context, committed squad.Squad, currentRound round.Round, input MakeTransferInput, points int) {
	if s.events == nil {
		return
	}

	event := TransferPenaltyEvent{
		SquadID:     committed.ID,
		UserID:      input.UserID,
		LeagueID:    input.LeagueID,
		RoundID:     currentRound.ID,
		PlayerOutID: input.PlayerOutID,
		PlayerInID:  input.PlayerInID,
		Points:      points,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.events.PublishTransferPenalty(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "publish transfer penalty failed",
			"squad_id", committed.ID,
			"round_id", currentRound.ID,
			"error", err,
		)
	}
}
