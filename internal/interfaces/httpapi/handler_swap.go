package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matchdayhq/squad-engine/internal/usecase"
)

type swapSelectionRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
}

type swapSelectionDTO struct {
	SourcePlayerID string `json:"source_player_id"`
	StartedAtUTC   string `json:"started_at_utc"`
}

func (h *Handler) StartSwapSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartSwapSelection")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req swapSelectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	pending, err := h.swapService.StartSwap(ctx, principal.UserID, req.LeagueID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "start swap selection failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pendingSwapToDTO(pending))
}

func (h *Handler) GetSwapSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSwapSelection")
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

	pending, ok := h.swapService.Selection(ctx, principal.UserID, leagueID)
	if !ok {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pendingSwapToDTO(pending))
}

func (h *Handler) CancelSwapSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSwapSelection")
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

	h.swapService.CancelSwap(ctx, principal.UserID, leagueID)

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) CompleteSwapSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteSwapSelection")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req swapSelectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.swapService.CompleteSwap(ctx, principal.UserID, req.LeagueID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "complete swap selection failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}

func pendingSwapToDTO(pending usecase.PendingSwap) swapSelectionDTO {
	return swapSelectionDTO{
		SourcePlayerID: pending.SourcePlayerID,
		StartedAtUTC:   pending.StartedAt.UTC().Format(time.RFC3339),
	}
}
