package squad

import (
	"errors"
	"fmt"
	"sort"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

var ErrInsufficientPlayersForFormation = errors.New("not enough players for formation")

// benchScanOrder is the fixed position sequence used when handing out
// bench orders to dropped players, substitution priority first.
var benchScanOrder = []player.Position{
	player.PositionForward,
	player.PositionMidfielder,
	player.PositionDefender,
	player.PositionGoalkeeper,
}

// StarterLess orders two candidates within one position bucket. The slot
// winning the comparison is picked for the starting lineup first.
type StarterLess func(a, b Slot) bool

// keepStartersThenPrice is the default comparator: an existing starter
// beats a bench player, otherwise the pricier player wins. Ties keep the
// original slot order via the stable sort in Assign.
func keepStartersThenPrice(a, b Slot) bool {
	if a.IsStarting != b.IsStarting {
		return a.IsStarting
	}
	return a.Price > b.Price
}

// Assigner partitions a complete squad into starters and bench for a
// target formation. The comparator is swappable; the default favours
// lineup continuity.
type Assigner struct {
	Less StarterLess
}

func NewAssigner() *Assigner {
	return &Assigner{Less: keepStartersThenPrice}
}

// Assign maps the squad onto the formation. It returns a new squad with
// exactly 11 starters matching the formation shape and 4 bench slots
// ordered 1..4; the input is never modified. Slots that lose their
// starting place also lose any captaincy role. Calling Assign again on
// its own output with the same formation is a no-op.
func (a *Assigner) Assign(s Squad, formation Formation) (Squad, error) {
	shape, ok := shapeByFormation[formation]
	if !ok {
		return Squad{}, fmt.Errorf("%w: %q", ErrUnsupportedFormation, formation)
	}

	less := a.Less
	if less == nil {
		less = keepStartersThenPrice
	}

	buckets := make(map[player.Position][]int, len(player.AllPositions))
	for i, slot := range s.Slots {
		buckets[slot.Position] = append(buckets[slot.Position], i)
	}

	starterIDs := make(map[string]struct{}, startingLineupSize)
	dropped := make(map[player.Position][]int, len(player.AllPositions))
	for _, pos := range positionOrder {
		bucket := buckets[pos]
		need := shape.Need(pos)
		if len(bucket) < need {
			return Squad{}, fmt.Errorf("%w: pos=%s formation=%s have=%d need=%d",
				ErrInsufficientPlayersForFormation, pos, formation, len(bucket), need)
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return less(s.Slots[bucket[i]], s.Slots[bucket[j]])
		})
		for i := 0; i < need; i++ {
			starterIDs[s.Slots[bucket[i]].PlayerID] = struct{}{}
		}
		tail := append([]int(nil), bucket[need:]...)
		// Bench order must not depend on the previous starting flags or
		// the assignment would drift on repeated calls.
		sort.SliceStable(tail, func(i, j int) bool {
			if s.Slots[tail[i]].Price != s.Slots[tail[j]].Price {
				return s.Slots[tail[i]].Price > s.Slots[tail[j]].Price
			}
			return tail[i] < tail[j]
		})
		dropped[pos] = tail
	}

	nextBenchOrder := 1
	benchOrderByID := make(map[string]int, benchSize)
	for _, pos := range benchScanOrder {
		for _, idx := range dropped[pos] {
			benchOrderByID[s.Slots[idx].PlayerID] = nextBenchOrder
			nextBenchOrder++
		}
	}

	result := s.Clone()
	result.Formation = formation
	for i := range result.Slots {
		slot := &result.Slots[i]
		if _, starting := starterIDs[slot.PlayerID]; starting {
			slot.IsStarting = true
			slot.BenchOrder = 0
			continue
		}
		slot.IsStarting = false
		slot.BenchOrder = benchOrderByID[slot.PlayerID]
		// Demoted players cannot keep a captaincy role; reassignment is
		// left to the caller.
		slot.IsCaptain = false
		slot.IsViceCaptain = false
	}

	return result, nil
}

// AssignLineup runs the default assigner.
func AssignLineup(s Squad, formation Formation) (Squad, error) {
	return NewAssigner().Assign(s, formation)
}
