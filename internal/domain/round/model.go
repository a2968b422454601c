package round

import (
	"fmt"
	"time"
)

// Round is a scored time window (gameweek) with a transfer deadline.
type Round struct {
	ID         string
	LeagueID   string
	Name       string
	StartAt    time.Time
	DeadlineAt time.Time
	EndAt      time.Time
}

func (r Round) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("round id is required")
	}
	if r.LeagueID == "" {
		return fmt.Errorf("round league id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("round name is required")
	}
	if !r.StartAt.Before(r.EndAt) {
		return fmt.Errorf("round start must be before end")
	}
	if r.DeadlineAt.Before(r.StartAt) || r.DeadlineAt.After(r.EndAt) {
		return fmt.Errorf("round deadline must fall inside the round window")
	}

	return nil
}

// Contains reports whether now falls inside the round window.
func (r Round) Contains(now time.Time) bool {
	return !now.Before(r.StartAt) && !now.After(r.EndAt)
}

// TransferWindowOpen reports whether transfers are still accepted at now.
func (r Round) TransferWindowOpen(now time.Time) bool {
	return !now.After(r.DeadlineAt)
}
