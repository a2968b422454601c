package squad

import (
	"errors"
	"fmt"
)

var ErrPlayerNotStarting = errors.New("player is not in the starting lineup")

// SetCaptain makes the starter the squad's captain. Any previous captain
// loses the armband, and a player can never hold both roles at once.
func SetCaptain(s Squad, playerID string) (Squad, error) {
	return setRole(s, playerID, true)
}

// SetViceCaptain is the vice-captain counterpart of SetCaptain.
func SetViceCaptain(s Squad, playerID string) (Squad, error) {
	return setRole(s, playerID, false)
}

func setRole(s Squad, playerID string, captain bool) (Squad, error) {
	idx := s.slotIndex(playerID)
	if idx < 0 {
		return Squad{}, fmt.Errorf("%w: %s", ErrPlayerNotInSquad, playerID)
	}
	if !s.Slots[idx].IsStarting {
		return Squad{}, fmt.Errorf("%w: %s", ErrPlayerNotStarting, playerID)
	}

	result := s.Clone()
	for i := range result.Slots {
		slot := &result.Slots[i]
		if captain {
			slot.IsCaptain = slot.PlayerID == playerID
			if slot.IsCaptain && slot.IsViceCaptain {
				slot.IsViceCaptain = false
			}
			continue
		}
		slot.IsViceCaptain = slot.PlayerID == playerID
		if slot.IsViceCaptain && slot.IsCaptain {
			slot.IsCaptain = false
		}
	}

	return result, nil
}
