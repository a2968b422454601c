package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matchdayhq/squad-engine/internal/usecase"
)

type catalogSyncRequest struct {
	LeagueIDs []string `json:"league_ids" validate:"required,min=1,dive,required"`
}

type catalogSyncDTO struct {
	Leagues      int    `json:"leagues"`
	Players      int    `json:"players"`
	Rounds       int    `json:"rounds"`
	StartedAtUTC string `json:"started_at_utc"`
	DurationMS   int64  `json:"duration_ms"`
}

func (h *Handler) RunCatalogSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCatalogSync")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: catalog sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req catalogSyncRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncService.Sync(ctx, req.LeagueIDs)
	if err != nil {
		h.logger.ErrorContext(ctx, "catalog sync failed", "leagues", req.LeagueIDs, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogSyncDTO{
		Leagues:      report.Leagues,
		Players:      report.Players,
		Rounds:       report.Rounds,
		StartedAtUTC: report.StartedAt.UTC().Format(time.RFC3339),
		DurationMS:   report.Duration.Milliseconds(),
	})
}
