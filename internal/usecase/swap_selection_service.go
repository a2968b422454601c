package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	"github.com/matchdayhq/squad-engine/internal/platform/cache"
)

// PendingSwap is the intermediate state of the two-step bench swap flow:
// a manager has picked the first player and now owes a swap target.
type PendingSwap struct {
	SourcePlayerID string
	StartedAt      time.Time
}

type benchSwapExecutor interface {
	GetMySquad(ctx context.Context, userID, leagueID string) (squad.Squad, error)
	SwapStarterForBench(ctx context.Context, userID, leagueID, starterID, benchID string) (squad.Squad, error)
}

// SwapSelectionService drives the selection protocol Idle ->
// AwaitingSwapTarget -> Idle. Selections live in a TTL store so an
// abandoned first pick expires on its own.
type SwapSelectionService struct {
	squads     benchSwapExecutor
	selections *cache.Store
	now        func() time.Time
}

func NewSwapSelectionService(squads benchSwapExecutor, selections *cache.Store) *SwapSelectionService {
	return &SwapSelectionService{
		squads:     squads,
		selections: selections,
		now:        time.Now,
	}
}

// StartSwap records the first pick. Picking while a selection is already
// pending replaces it, matching tapping a different player mid-flow.
func (s *SwapSelectionService) StartSwap(ctx context.Context, userID, leagueID, sourcePlayerID string) (PendingSwap, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SwapSelectionService.StartSwap")
	defer span.End()

	sourcePlayerID = strings.TrimSpace(sourcePlayerID)
	if sourcePlayerID == "" {
		return PendingSwap{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	current, err := s.squads.GetMySquad(ctx, userID, leagueID)
	if err != nil {
		return PendingSwap{}, err
	}
	if !current.Contains(sourcePlayerID) {
		return PendingSwap{}, fmt.Errorf("%w: %s", squad.ErrPlayerNotInSquad, sourcePlayerID)
	}

	pending := PendingSwap{
		SourcePlayerID: sourcePlayerID,
		StartedAt:      s.now().UTC(),
	}
	s.selections.Set(ctx, selectionKey(userID, leagueID), pending)

	return pending, nil
}

// Selection reports the pending pick, if any.
func (s *SwapSelectionService) Selection(ctx context.Context, userID, leagueID string) (PendingSwap, bool) {
	value, ok := s.selections.Get(ctx, selectionKey(userID, leagueID))
	if !ok {
		return PendingSwap{}, false
	}
	pending, ok := value.(PendingSwap)

	return pending, ok
}

// CancelSwap returns the flow to idle without touching the squad.
func (s *SwapSelectionService) CancelSwap(ctx context.Context, userID, leagueID string) {
	s.selections.Delete(ctx, selectionKey(userID, leagueID))
}

// CompleteSwap resolves which side of the pending pair is the starter and
// executes the bench swap. A rejected target keeps the selection pending so
// the manager can pick another without restarting.
func (s *SwapSelectionService) CompleteSwap(ctx context.Context, userID, leagueID, targetPlayerID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SwapSelectionService.CompleteSwap")
	defer span.End()

	targetPlayerID = strings.TrimSpace(targetPlayerID)
	if targetPlayerID == "" {
		return squad.Squad{}, fmt.Errorf("%w: target player id is required", ErrInvalidInput)
	}

	pending, ok := s.Selection(ctx, userID, leagueID)
	if !ok {
		return squad.Squad{}, fmt.Errorf("%w: no swap in progress", ErrInvalidInput)
	}
	if pending.SourcePlayerID == targetPlayerID {
		return squad.Squad{}, fmt.Errorf("%w: target must differ from the first pick", ErrInvalidInput)
	}

	current, err := s.squads.GetMySquad(ctx, userID, leagueID)
	if err != nil {
		return squad.Squad{}, err
	}

	starterID, benchID, err := orientSwap(current, pending.SourcePlayerID, targetPlayerID)
	if err != nil {
		return squad.Squad{}, err
	}

	swapped, err := s.squads.SwapStarterForBench(ctx, userID, leagueID, starterID, benchID)
	if err != nil {
		return squad.Squad{}, err
	}

	s.CancelSwap(ctx, userID, leagueID)

	return swapped, nil
}

// orientSwap maps an unordered pair onto (starter, bench). Two starters or
// two bench players cannot be swapped with each other.
func orientSwap(current squad.Squad, firstID, secondID string) (string, string, error) {
	firstIdx, secondIdx := -1, -1
	for i, slot := range current.Slots {
		switch slot.PlayerID {
		case firstID:
			firstIdx = i
		case secondID:
			secondIdx = i
		}
	}
	if firstIdx < 0 {
		return "", "", fmt.Errorf("%w: %s", squad.ErrPlayerNotInSquad, firstID)
	}
	if secondIdx < 0 {
		return "", "", fmt.Errorf("%w: %s", squad.ErrPlayerNotInSquad, secondID)
	}

	firstStarting := current.Slots[firstIdx].IsStarting
	secondStarting := current.Slots[secondIdx].IsStarting
	switch {
	case firstStarting && !secondStarting:
		return firstID, secondID, nil
	case !firstStarting && secondStarting:
		return secondID, firstID, nil
	default:
		return "", "", fmt.Errorf("%w: swap needs one starter and one bench player", ErrInvalidInput)
	}
}

func selectionKey(userID, leagueID string) string {
	return "swap-selection:" + strings.TrimSpace(userID) + ":" + strings.TrimSpace(leagueID)
}
