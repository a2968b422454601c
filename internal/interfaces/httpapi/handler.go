package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

type Handler struct {
	squadService    *usecase.SquadService
	transferService *usecase.TransferService
	playerService   *usecase.PlayerService
	roundService    *usecase.RoundService
	swapService     *usecase.SwapSelectionService
	syncService     *usecase.CatalogSyncService
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	squadService *usecase.SquadService,
	transferService *usecase.TransferService,
	playerService *usecase.PlayerService,
	roundService *usecase.RoundService,
	swapService *usecase.SwapSelectionService,
	syncService *usecase.CatalogSyncService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		squadService:    squadService,
		transferService: transferService,
		playerService:   playerService,
		roundService:    roundService,
		swapService:     swapService,
		syncService:     syncService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type squadDTO struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"user_id"`
	LeagueID               string     `json:"league_id"`
	TeamName               string     `json:"team_name"`
	Formation              string     `json:"formation"`
	BudgetCap              float64    `json:"budget_cap"`
	BudgetRemaining        float64    `json:"budget_remaining"`
	FreeTransfersRemaining int        `json:"free_transfers_remaining"`
	WildcardUsed           bool       `json:"wildcard_used"`
	WildcardActiveRoundID  string     `json:"wildcard_active_round_id,omitempty"`
	Version                int64      `json:"version"`
	Slots                  []slotDTO  `json:"slots"`
	CreatedAtUTC           string     `json:"created_at_utc"`
	UpdatedAtUTC           string     `json:"updated_at_utc"`
}

type slotDTO struct {
	PlayerID      string  `json:"player_id"`
	TeamID        string  `json:"team_id"`
	Position      string  `json:"position"`
	Price         float64 `json:"price"`
	IsStarting    bool    `json:"is_starting"`
	BenchOrder    int     `json:"bench_order,omitempty"`
	IsCaptain     bool    `json:"is_captain"`
	IsViceCaptain bool    `json:"is_vice_captain"`
}

func squadToDTO(ctx context.Context, v squad.Squad) squadDTO {
	ctx, span := startSpan(ctx, "httpapi.squadToDTO")
	defer span.End()

	slots := make([]slotDTO, 0, len(v.Slots))
	for _, slot := range v.Slots {
		slots = append(slots, slotDTO{
			PlayerID:      slot.PlayerID,
			TeamID:        slot.TeamID,
			Position:      string(slot.Position),
			Price:         tenthsToDecimal(slot.Price),
			IsStarting:    slot.IsStarting,
			BenchOrder:    slot.BenchOrder,
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
		})
	}

	return squadDTO{
		ID:                     v.ID,
		UserID:                 v.UserID,
		LeagueID:               v.LeagueID,
		TeamName:               v.TeamName,
		Formation:              string(v.Formation),
		BudgetCap:              tenthsToDecimal(v.BudgetCap),
		BudgetRemaining:        tenthsToDecimal(v.BudgetRemaining()),
		FreeTransfersRemaining: v.FreeTransfersRemaining,
		WildcardUsed:           v.WildcardUsed,
		WildcardActiveRoundID:  v.WildcardActiveRoundID,
		Version:                v.Version,
		Slots:                  slots,
		CreatedAtUTC:           v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:           v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// tenthsToDecimal renders a price stored in tenths of a currency unit as
// a decimal with one fractional digit (45 -> 4.5).
func tenthsToDecimal(v int64) float64 {
	return float64(v) / 10.0
}

func decimalToTenths(v float64) int64 {
	if v < 0 {
		return int64(v*10 - 0.5)
	}
	return int64(v*10 + 0.5)
}
