package feedapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/round"
)

type playersEnvelope struct {
	Data []feedPlayerItem `json:"data"`
}

type feedPlayerItem struct {
	ID          string  `json:"id"`
	TeamID      string  `json:"team_id"`
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	Price       float64 `json:"price"`
	IsActive    *bool   `json:"is_active"`
	ExternalRef int64   `json:"external_ref"`
}

type roundsEnvelope struct {
	Data []feedRoundItem `json:"data"`
}

type feedRoundItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartAt    string `json:"start_at_utc"`
	DeadlineAt string `json:"deadline_at_utc"`
	EndAt      string `json:"end_at_utc"`
}

func mapFeedPlayer(leagueID string, item feedPlayerItem) (player.Player, bool) {
	position, ok := normalizeFeedPosition(item.Position)
	if !ok {
		return player.Player{}, false
	}

	active := true
	if item.IsActive != nil {
		active = *item.IsActive
	}

	mapped := player.Player{
		ID:          strings.TrimSpace(item.ID),
		LeagueID:    leagueID,
		TeamID:      strings.TrimSpace(item.TeamID),
		Name:        strings.TrimSpace(item.Name),
		Position:    position,
		Price:       priceToTenths(item.Price),
		IsActive:    active,
		ExternalRef: item.ExternalRef,
	}
	if err := mapped.Validate(); err != nil {
		return player.Player{}, false
	}
	return mapped, true
}

func mapFeedRound(leagueID string, item feedRoundItem) (round.Round, error) {
	startAt, err := parseFeedTime(item.StartAt)
	if err != nil {
		return round.Round{}, fmt.Errorf("start_at_utc: %w", err)
	}
	deadlineAt, err := parseFeedTime(item.DeadlineAt)
	if err != nil {
		return round.Round{}, fmt.Errorf("deadline_at_utc: %w", err)
	}
	endAt, err := parseFeedTime(item.EndAt)
	if err != nil {
		return round.Round{}, fmt.Errorf("end_at_utc: %w", err)
	}

	mapped := round.Round{
		ID:         strings.TrimSpace(item.ID),
		LeagueID:   leagueID,
		Name:       strings.TrimSpace(item.Name),
		StartAt:    startAt,
		DeadlineAt: deadlineAt,
		EndAt:      endAt,
	}
	if err := mapped.Validate(); err != nil {
		return round.Round{}, err
	}
	return mapped, nil
}

func normalizeFeedPosition(raw string) (player.Position, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gk", "goalkeeper", "keeper", "goalie":
		return player.PositionGoalkeeper, true
	case "def", "defender", "centre-back", "center-back", "full-back", "wing-back":
		return player.PositionDefender, true
	case "mid", "midfielder", "winger", "attacking midfielder", "defensive midfielder":
		return player.PositionMidfielder, true
	case "fwd", "forward", "attacker", "striker":
		return player.PositionForward, true
	default:
		return "", false
	}
}

// priceToTenths converts the feed's decimal price (4.5) to internal
// tenths (45).
func priceToTenths(value float64) int64 {
	if value <= 0 {
		return 0
	}
	return int64(value*10.0 + 0.5)
}

func parseFeedTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("value is empty")
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
