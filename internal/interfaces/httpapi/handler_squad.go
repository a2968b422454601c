package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

type createSquadRequest struct {
	LeagueID  string   `json:"league_id" validate:"required"`
	TeamName  string   `json:"team_name" validate:"required,max=100"`
	PlayerIDs []string `json:"player_ids" validate:"required,len=15,dive,required"`
}

type updateTeamNameRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	TeamName string `json:"team_name" validate:"required,max=100"`
}

type changeFormationRequest struct {
	LeagueID  string `json:"league_id" validate:"required"`
	Formation string `json:"formation" validate:"required"`
}

type captaincyRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
}

type benchSwapRequest struct {
	LeagueID  string `json:"league_id" validate:"required"`
	StarterID string `json:"starter_id" validate:"required"`
	BenchID   string `json:"bench_id" validate:"required"`
}

func (h *Handler) CreateSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createSquadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.squadService.CreateSquad(ctx, usecase.CreateSquadInput{
		UserID:    principal.UserID,
		LeagueID:  req.LeagueID,
		TeamName:  req.TeamName,
		PlayerIDs: req.PlayerIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create squad failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, squadToDTO(ctx, created))
}

func (h *Handler) GetMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	if err := h.validateRequest(ctx, listPlayersRequest{LeagueID: leagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.squadService.GetMySquad(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, item))
}

func (h *Handler) UpdateTeamName(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeamName")
	defer span.End()

	var req updateTeamNameRequest
	h.applySquadUpdate(ctx, w, r, "update team name", &req, func(ctx context.Context, principalID string) (squad.Squad, error) {
		return h.squadService.UpdateTeamName(ctx, principalID, req.LeagueID, req.TeamName)
	})
}

func (h *Handler) ChangeFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangeFormation")
	defer span.End()

	var req changeFormationRequest
	h.applySquadUpdate(ctx, w, r, "change formation", &req, func(ctx context.Context, principalID string) (squad.Squad, error) {
		return h.squadService.ChangeFormation(ctx, principalID, req.LeagueID, req.Formation)
	})
}

func (h *Handler) SetCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCaptain")
	defer span.End()

	var req captaincyRequest
	h.applySquadUpdate(ctx, w, r, "set captain", &req, func(ctx context.Context, principalID string) (squad.Squad, error) {
		return h.squadService.SetCaptain(ctx, principalID, req.LeagueID, req.PlayerID)
	})
}

func (h *Handler) SetViceCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetViceCaptain")
	defer span.End()

	var req captaincyRequest
	h.applySquadUpdate(ctx, w, r, "set vice-captain", &req, func(ctx context.Context, principalID string) (squad.Squad, error) {
		return h.squadService.SetViceCaptain(ctx, principalID, req.LeagueID, req.PlayerID)
	})
}

func (h *Handler) SwapBench(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapBench")
	defer span.End()

	var req benchSwapRequest
	h.applySquadUpdate(ctx, w, r, "bench swap", &req, func(ctx context.Context, principalID string) (squad.Squad, error) {
		return h.squadService.SwapStarterForBench(ctx, principalID, req.LeagueID, req.StarterID, req.BenchID)
	})
}

// applySquadUpdate factors the decode/validate/execute/respond cycle shared
// by every squad mutation endpoint. ctx carries the endpoint's span so the
// usecase spans nest under it.
func (h *Handler) applySquadUpdate(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	action string,
	req any,
	execute func(ctx context.Context, principalID string) (squad.Squad, error),
) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	if err := decodeBody(r, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := execute(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, action+" failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}

func decodeBody(r *http.Request, target any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
