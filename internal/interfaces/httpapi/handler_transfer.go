package httpapi

import (
	"fmt"
	"net/http"

	"github.com/matchdayhq/squad-engine/internal/usecase"
)

type makeTransferRequest struct {
	LeagueID    string `json:"league_id" validate:"required"`
	PlayerOutID string `json:"player_out_id" validate:"required"`
	PlayerInID  string `json:"player_in_id" validate:"required"`
}

type activateWildcardRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
}

type transferOutcomeDTO struct {
	Squad         squadDTO `json:"squad"`
	CostKind      string   `json:"cost_kind"`
	PenaltyPoints int      `json:"penalty_points"`
}

func (h *Handler) MakeTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MakeTransfer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req makeTransferRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.transferService.MakeTransfer(ctx, usecase.MakeTransferInput{
		UserID:      principal.UserID,
		LeagueID:    req.LeagueID,
		PlayerOutID: req.PlayerOutID,
		PlayerInID:  req.PlayerInID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "make transfer failed",
			"user_id", principal.UserID,
			"league_id", req.LeagueID,
			"player_out_id", req.PlayerOutID,
			"player_in_id", req.PlayerInID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferOutcomeDTO{
		Squad:         squadToDTO(ctx, outcome.Squad),
		CostKind:      string(outcome.Cost.Kind),
		PenaltyPoints: outcome.Cost.Points,
	})
}

func (h *Handler) ActivateWildcard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateWildcard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req activateWildcardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.transferService.ActivateWildcard(ctx, principal.UserID, req.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "activate wildcard failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}
