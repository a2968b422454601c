package squad

import (
	"errors"
	"fmt"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

var (
	ErrSquadIncomplete        = errors.New("squad must contain exactly 15 players")
	ErrDuplicatePlayerInSquad = errors.New("duplicate player in squad")
	ErrPositionLimitExceeded  = errors.New("position quota violated")
	ErrTeamLimitExceeded      = errors.New("max players from same team exceeded")
	ErrBudgetExceeded         = errors.New("season budget exceeded")
	ErrDuplicateCaptaincy     = errors.New("captain and vice-captain must be different starters")
)

// Rules stores the composition parameters for one season.
type Rules struct {
	SquadSize         int
	Budget            int64
	MaxPlayersPerTeam int
	QuotaByPosition   map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:         15,
		Budget:            1000,
		MaxPlayersPerTeam: 2,
		QuotaByPosition: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
	}
}

// CanAdd reports whether the candidate can join a draft in progress.
// It is a pure predicate: no error detail, no mutation.
func CanAdd(draft Squad, candidate player.Player, rules Rules) bool {
	if len(draft.Slots) >= rules.SquadSize {
		return false
	}
	if draft.Contains(candidate.ID) {
		return false
	}
	if draft.countByPosition()[candidate.Position] >= rules.QuotaByPosition[candidate.Position] {
		return false
	}
	if draft.countByTeam()[candidate.TeamID] >= rules.MaxPlayersPerTeam {
		return false
	}
	if candidate.Price > rules.Budget-draft.Spend() {
		return false
	}

	return true
}

// ValidationReport lists composition invariant violations in check order.
// An empty report means the squad is legal.
type ValidationReport struct {
	Violations []error
}

func (r ValidationReport) OK() bool {
	return len(r.Violations) == 0
}

// Err joins the violations into a single error, or nil when the report
// is clean. errors.Is works against every sentinel in the list.
func (r ValidationReport) Err() error {
	if r.OK() {
		return nil
	}
	return errors.Join(r.Violations...)
}

// ValidateComplete checks the completed-squad invariants: exactly 15
// distinct players, the 2/5/5/3 position quota, the per-team cap and the
// season budget. Lineup and captaincy invariants are checked separately
// by ValidateLineup.
func ValidateComplete(s Squad, rules Rules) ValidationReport {
	var report ValidationReport

	if len(s.Slots) != rules.SquadSize {
		report.Violations = append(report.Violations,
			fmt.Errorf("%w: expected %d, got %d", ErrSquadIncomplete, rules.SquadSize, len(s.Slots)))
	}

	seen := make(map[string]struct{}, len(s.Slots))
	for _, slot := range s.Slots {
		if _, dup := seen[slot.PlayerID]; dup {
			report.Violations = append(report.Violations,
				fmt.Errorf("%w: %s", ErrDuplicatePlayerInSquad, slot.PlayerID))
			continue
		}
		seen[slot.PlayerID] = struct{}{}
	}

	counts := s.countByPosition()
	for _, pos := range positionOrder {
		if counts[pos] != rules.QuotaByPosition[pos] {
			report.Violations = append(report.Violations,
				fmt.Errorf("%w: pos=%s expected=%d got=%d", ErrPositionLimitExceeded, pos, rules.QuotaByPosition[pos], counts[pos]))
		}
	}

	for team, count := range s.countByTeam() {
		if count > rules.MaxPlayersPerTeam {
			report.Violations = append(report.Violations,
				fmt.Errorf("%w: team=%s count=%d max=%d", ErrTeamLimitExceeded, team, count, rules.MaxPlayersPerTeam))
		}
	}

	if spend := s.Spend(); spend > rules.Budget {
		report.Violations = append(report.Violations,
			fmt.Errorf("%w: budget=%d spend=%d", ErrBudgetExceeded, rules.Budget, spend))
	}

	return report
}

// ValidateLineup checks the lineup invariants on top of composition:
// eleven starters matching the formation shape, bench orders forming a
// permutation of 1..4, and captaincy exclusivity among starters.
func ValidateLineup(s Squad) error {
	shape, ok := shapeByFormation[s.Formation]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormation, s.Formation)
	}

	starters := s.starterCountByPosition()
	total := 0
	for _, pos := range positionOrder {
		total += starters[pos]
		if starters[pos] != shape.Need(pos) {
			return fmt.Errorf("%w: pos=%s formation=%s expected=%d got=%d",
				ErrInsufficientPlayersForFormation, pos, s.Formation, shape.Need(pos), starters[pos])
		}
	}
	if total != startingLineupSize {
		return fmt.Errorf("%w: expected %d starters, got %d", ErrInsufficientPlayersForFormation, startingLineupSize, total)
	}

	orders := make(map[int]struct{}, benchSize)
	for _, slot := range s.Bench() {
		if slot.BenchOrder < 1 || slot.BenchOrder > benchSize {
			return fmt.Errorf("bench order out of range for player %s: %d", slot.PlayerID, slot.BenchOrder)
		}
		if _, dup := orders[slot.BenchOrder]; dup {
			return fmt.Errorf("duplicate bench order %d", slot.BenchOrder)
		}
		orders[slot.BenchOrder] = struct{}{}
	}
	if len(orders) != benchSize {
		return fmt.Errorf("bench must contain exactly %d ordered players", benchSize)
	}

	var captainID, viceID string
	for _, slot := range s.Slots {
		if slot.IsCaptain {
			if captainID != "" {
				return fmt.Errorf("%w: multiple captains", ErrDuplicateCaptaincy)
			}
			if !slot.IsStarting {
				return fmt.Errorf("%w: captain %s", ErrPlayerNotStarting, slot.PlayerID)
			}
			captainID = slot.PlayerID
		}
		if slot.IsViceCaptain {
			if viceID != "" {
				return fmt.Errorf("%w: multiple vice-captains", ErrDuplicateCaptaincy)
			}
			if !slot.IsStarting {
				return fmt.Errorf("%w: vice-captain %s", ErrPlayerNotStarting, slot.PlayerID)
			}
			viceID = slot.PlayerID
		}
	}
	if captainID != "" && captainID == viceID {
		return fmt.Errorf("%w: %s", ErrDuplicateCaptaincy, captainID)
	}

	return nil
}

var positionOrder = []player.Position{
	player.PositionGoalkeeper,
	player.PositionDefender,
	player.PositionMidfielder,
	player.PositionForward,
}
