package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

type playerDTO struct {
	ID       string  `json:"id"`
	LeagueID string  `json:"league_id"`
	TeamID   string  `json:"team_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"is_active"`
}

type listPlayersRequest struct {
	LeagueID string `validate:"required"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	q := r.URL.Query()
	leagueID := strings.TrimSpace(q.Get("league_id"))
	if err := h.validateRequest(ctx, listPlayersRequest{LeagueID: leagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	filter, err := parseListFilter(q)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.ListPlayers(ctx, leagueID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))
	if err := h.validateRequest(ctx, listPlayersRequest{LeagueID: leagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.GetPlayer(ctx, leagueID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "league_id", leagueID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func parseListFilter(q map[string][]string) (player.ListFilter, error) {
	get := func(key string) string {
		values := q[key]
		if len(values) == 0 {
			return ""
		}
		return strings.TrimSpace(values[0])
	}

	filter := player.ListFilter{TeamID: get("team_id")}

	if raw := get("position"); raw != "" {
		position := player.Position(strings.ToUpper(raw))
		if _, ok := player.AllPositions[position]; !ok {
			return player.ListFilter{}, fmt.Errorf("%w: unknown position %q", usecase.ErrInvalidInput, raw)
		}
		filter.Position = position
	}
	if raw := get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice <= 0 {
			return player.ListFilter{}, fmt.Errorf("%w: max_price must be a positive decimal", usecase.ErrInvalidInput)
		}
		filter.MaxPrice = decimalToTenths(maxPrice)
	}
	if raw := get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return player.ListFilter{}, fmt.Errorf("%w: active must be a boolean", usecase.ErrInvalidInput)
		}
		filter.ActiveOnly = active
	}
	if raw := get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return player.ListFilter{}, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
		}
		filter.Limit = limit
	}

	return filter, nil
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:       v.ID,
		LeagueID: v.LeagueID,
		TeamID:   v.TeamID,
		Name:     v.Name,
		Position: string(v.Position),
		Price:    tenthsToDecimal(v.Price),
		IsActive: v.IsActive,
	}
}

type roundDTO struct {
	ID            string `json:"id"`
	LeagueID      string `json:"league_id"`
	Name          string `json:"name"`
	StartAtUTC    string `json:"start_at_utc"`
	DeadlineAtUTC string `json:"deadline_at_utc"`
	EndAtUTC      string `json:"end_at_utc"`
}

func (h *Handler) GetCurrentRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentRound")
	defer span.End()

	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	if err := h.validateRequest(ctx, listPlayersRequest{LeagueID: leagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	current, err := h.roundService.CurrentRound(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get current round failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundDTO{
		ID:            current.ID,
		LeagueID:      current.LeagueID,
		Name:          current.Name,
		StartAtUTC:    current.StartAt.UTC().Format(time.RFC3339),
		DeadlineAtUTC: current.DeadlineAt.UTC().Format(time.RFC3339),
		EndAtUTC:      current.EndAt.UTC().Format(time.RFC3339),
	})
}
