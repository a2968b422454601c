package squad

import (
	"errors"
	"fmt"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

var (
	ErrPlayerNotInSquad     = errors.New("player is not in the squad")
	ErrPlayerAlreadyInSquad = errors.New("player is already in the squad")
	ErrWildcardAlreadyUsed  = errors.New("wildcard already used this season")
)

// TransferPenaltyPoints is the deduction the scoring system applies for
// each transfer beyond the free allowance.
const TransferPenaltyPoints = -4

type TransferCostKind string

const (
	TransferCostFree      TransferCostKind = "free"
	TransferCostPenalized TransferCostKind = "penalized"
)

// TransferCost describes how one committed swap was paid for.
type TransferCost struct {
	Kind   TransferCostKind
	Points int
}

func freeTransfer() TransferCost {
	return TransferCost{Kind: TransferCostFree}
}

func penalizedTransfer() TransferCost {
	return TransferCost{Kind: TransferCostPenalized, Points: TransferPenaltyPoints}
}

// TransferResult carries the committed squad and the cost of the swap.
type TransferResult struct {
	Squad Squad
	Cost  TransferCost
}

// Swap replaces one squad player with a catalog player. The incoming
// player inherits the outgoing slot's lineup position (starter for
// starter, bench slot and order for bench) but never a captaincy role.
// The candidate squad is re-validated before the economy is touched;
// on any failure the input squad is returned to the caller unchanged.
// wildcardActive waives the free-transfer economy entirely; the caller
// decides it from the squad's wildcard state and the current round.
func Swap(s Squad, playerOutID string, incoming player.Player, rules Rules, wildcardActive bool) (TransferResult, error) {
	outIdx := s.slotIndex(playerOutID)
	if outIdx < 0 {
		return TransferResult{}, fmt.Errorf("%w: %s", ErrPlayerNotInSquad, playerOutID)
	}
	if s.Contains(incoming.ID) {
		return TransferResult{}, fmt.Errorf("%w: %s", ErrPlayerAlreadyInSquad, incoming.ID)
	}

	candidate := s.Clone()
	slot := &candidate.Slots[outIdx]
	slot.PlayerID = incoming.ID
	slot.TeamID = incoming.TeamID
	slot.Position = incoming.Position
	slot.Price = incoming.Price
	slot.IsCaptain = false
	slot.IsViceCaptain = false

	if report := ValidateComplete(candidate, rules); !report.OK() {
		return TransferResult{}, report.Err()
	}

	cost := freeTransfer()
	switch {
	case wildcardActive:
		// Unlimited within the activation round only.
	case candidate.FreeTransfersRemaining > 0:
		candidate.FreeTransfersRemaining--
	default:
		// The allowance never goes negative; extra moves are flagged for
		// the scoring system to settle.
		cost = penalizedTransfer()
	}

	return TransferResult{Squad: candidate, Cost: cost}, nil
}

// ActivateWildcard flips the one-time season wildcard. Irreversible.
// The activation round is recorded so the unlimited-transfer waiver can
// be scoped to that round alone.
func ActivateWildcard(s Squad, roundID string) (Squad, error) {
	if s.WildcardUsed {
		return Squad{}, ErrWildcardAlreadyUsed
	}

	result := s.Clone()
	result.WildcardUsed = true
	result.WildcardActiveRoundID = roundID
	return result, nil
}

// SwapStarterForBench exchanges a starter with a bench player inside the
// same squad. No transfer cost applies. The promoted player takes a
// starting place, the demoted one takes the lowest free bench order, and
// the demoted player loses any captaincy role. When the two players play
// different positions the squad's formation is recomputed from the new
// starter counts; a shape outside the supported table is rejected.
func SwapStarterForBench(s Squad, starterID, benchID string) (Squad, error) {
	starterIdx := s.slotIndex(starterID)
	if starterIdx < 0 {
		return Squad{}, fmt.Errorf("%w: %s", ErrPlayerNotInSquad, starterID)
	}
	benchIdx := s.slotIndex(benchID)
	if benchIdx < 0 {
		return Squad{}, fmt.Errorf("%w: %s", ErrPlayerNotInSquad, benchID)
	}
	if !s.Slots[starterIdx].IsStarting {
		return Squad{}, fmt.Errorf("%w: %s", ErrPlayerNotStarting, starterID)
	}
	if s.Slots[benchIdx].IsStarting {
		return Squad{}, fmt.Errorf("%w: %s is not on the bench", ErrPlayerAlreadyInSquad, benchID)
	}

	result := s.Clone()
	out := &result.Slots[starterIdx]
	in := &result.Slots[benchIdx]

	if out.Position != in.Position {
		counts := result.starterCountByPosition()
		counts[out.Position]--
		counts[in.Position]++
		shape := Shape{
			Goalkeepers: counts[player.PositionGoalkeeper],
			Defenders:   counts[player.PositionDefender],
			Midfielders: counts[player.PositionMidfielder],
			Forwards:    counts[player.PositionForward],
		}
		formation, ok := FormationForShape(shape)
		if !ok {
			return Squad{}, fmt.Errorf("%w: swap %s for %s leaves no legal formation",
				ErrUnsupportedFormation, starterID, benchID)
		}
		result.Formation = formation
	}

	in.IsStarting = true
	in.BenchOrder = 0
	out.IsStarting = false
	out.IsCaptain = false
	out.IsViceCaptain = false

	used := make(map[int]struct{}, benchSize)
	for _, slot := range result.Bench() {
		if slot.PlayerID != out.PlayerID && slot.BenchOrder > 0 {
			used[slot.BenchOrder] = struct{}{}
		}
	}
	for order := 1; order <= benchSize; order++ {
		if _, taken := used[order]; !taken {
			out.BenchOrder = order
			break
		}
	}

	return result, nil
}
