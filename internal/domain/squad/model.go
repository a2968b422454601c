package squad

import (
	"fmt"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

// Slot is one selected player inside a squad. Player reference data is
// denormalized at selection time so rule checks never need the catalog.
type Slot struct {
	PlayerID      string
	TeamID        string
	Position      player.Position
	Price         int64
	IsStarting    bool
	BenchOrder    int
	IsCaptain     bool
	IsViceCaptain bool
}

// Squad is a manager's 15-player selection for one league. All engine
// operations treat it as an immutable snapshot: they return a new value
// and never modify their input.
type Squad struct {
	ID                     string
	UserID                 string
	LeagueID               string
	TeamName               string
	Formation              Formation
	BudgetCap              int64
	FreeTransfersRemaining int
	WildcardUsed           bool
	WildcardActiveRoundID  string
	Version                int64
	Slots                  []Slot
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (s Squad) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("squad id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if s.TeamName == "" {
		return fmt.Errorf("team name is required")
	}
	if s.BudgetCap <= 0 {
		return fmt.Errorf("budget cap must be greater than zero")
	}
	if s.FreeTransfersRemaining < 0 {
		return fmt.Errorf("free transfers cannot be negative")
	}
	if len(s.Slots) == 0 {
		return fmt.Errorf("squad slots are required")
	}

	return nil
}

// Clone returns a deep copy so callers can build a candidate without
// touching the original snapshot.
func (s Squad) Clone() Squad {
	copied := s
	copied.Slots = append([]Slot(nil), s.Slots...)
	return copied
}

// WildcardActiveIn reports whether the wildcard was activated in the given
// round. Activation is one-way, but the free-transfer waiver only applies
// within the activation round.
func (s Squad) WildcardActiveIn(roundID string) bool {
	return s.WildcardUsed && roundID != "" && s.WildcardActiveRoundID == roundID
}

// Spend is the total catalog price of every selected player.
func (s Squad) Spend() int64 {
	var total int64
	for _, slot := range s.Slots {
		total += slot.Price
	}
	return total
}

// BudgetRemaining is the unspent part of the season budget.
func (s Squad) BudgetRemaining() int64 {
	return s.BudgetCap - s.Spend()
}

func (s Squad) slotIndex(playerID string) int {
	for i := range s.Slots {
		if s.Slots[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Contains reports whether the player currently occupies a slot.
func (s Squad) Contains(playerID string) bool {
	return s.slotIndex(playerID) >= 0
}

// Starters returns the starting slots in slot order.
func (s Squad) Starters() []Slot {
	starters := make([]Slot, 0, startingLineupSize)
	for _, slot := range s.Slots {
		if slot.IsStarting {
			starters = append(starters, slot)
		}
	}
	return starters
}

// Bench returns the non-starting slots in slot order.
func (s Squad) Bench() []Slot {
	bench := make([]Slot, 0, benchSize)
	for _, slot := range s.Slots {
		if !slot.IsStarting {
			bench = append(bench, slot)
		}
	}
	return bench
}

// CaptainID returns the captain's player id, or "" when unassigned.
func (s Squad) CaptainID() string {
	for _, slot := range s.Slots {
		if slot.IsCaptain {
			return slot.PlayerID
		}
	}
	return ""
}

// ViceCaptainID returns the vice-captain's player id, or "" when unassigned.
func (s Squad) ViceCaptainID() string {
	for _, slot := range s.Slots {
		if slot.IsViceCaptain {
			return slot.PlayerID
		}
	}
	return ""
}

func (s Squad) countByPosition() map[player.Position]int {
	counts := make(map[player.Position]int, len(player.AllPositions))
	for _, slot := range s.Slots {
		counts[slot.Position]++
	}
	return counts
}

func (s Squad) countByTeam() map[string]int {
	counts := make(map[string]int)
	for _, slot := range s.Slots {
		counts[slot.TeamID]++
	}
	return counts
}

func (s Squad) starterCountByPosition() map[player.Position]int {
	counts := make(map[player.Position]int, len(player.AllPositions))
	for _, slot := range s.Slots {
		if slot.IsStarting {
			counts[slot.Position]++
		}
	}
	return counts
}
