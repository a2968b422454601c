package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/round"
	"github.com/matchdayhq/squad-engine/internal/domain/squad"
	"github.com/matchdayhq/squad-engine/internal/domain/user"
	"github.com/matchdayhq/squad-engine/internal/infrastructure/account/statictoken"
	"github.com/matchdayhq/squad-engine/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/squad-engine/internal/platform/cache"
	"github.com/matchdayhq/squad-engine/internal/platform/id"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

const testSyncToken = "sync-secret"

func routerCatalog() []player.Player {
	mk := func(playerID, teamID string, position player.Position, price int64) player.Player {
		return player.Player{
			ID:       playerID,
			LeagueID: "league-1",
			TeamID:   teamID,
			Name:     strings.ToUpper(playerID),
			Position: position,
			Price:    price,
			IsActive: true,
		}
	}

	return []player.Player{
		mk("gk-1", "t1", player.PositionGoalkeeper, 45),
		mk("gk-2", "t2", player.PositionGoalkeeper, 40),
		mk("def-1", "t1", player.PositionDefender, 50),
		mk("def-2", "t2", player.PositionDefender, 50),
		mk("def-3", "t3", player.PositionDefender, 50),
		mk("def-4", "t4", player.PositionDefender, 50),
		mk("def-5", "t5", player.PositionDefender, 50),
		mk("mid-1", "t3", player.PositionMidfielder, 60),
		mk("mid-2", "t4", player.PositionMidfielder, 60),
		mk("mid-3", "t5", player.PositionMidfielder, 60),
		mk("mid-4", "t6", player.PositionMidfielder, 60),
		mk("mid-5", "t6", player.PositionMidfielder, 60),
		mk("fwd-1", "t7", player.PositionForward, 90),
		mk("fwd-2", "t7", player.PositionForward, 80),
		mk("fwd-3", "t8", player.PositionForward, 70),
	}
}

func newTestRouter(t *testing.T) (http.Handler, *statictoken.Verifier) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	playerRepo := memory.NewPlayerRepository(nil)
	if err := playerRepo.UpsertBatch(t.Context(), routerCatalog()); err != nil {
		t.Fatalf("seed players failed: %v", err)
	}
	roundRepo := memory.NewRoundRepository(nil)
	if err := roundRepo.Upsert(t.Context(), round.Round{
		ID:         "round-1",
		LeagueID:   "league-1",
		Name:       "Matchday 1",
		StartAt:    time.Now().Add(-time.Hour),
		DeadlineAt: time.Now().Add(time.Hour),
		EndAt:      time.Now().Add(48 * time.Hour),
	}); err != nil {
		t.Fatalf("seed round failed: %v", err)
	}
	squadRepo := memory.NewSquadRepository()

	squadService := usecase.NewSquadService(playerRepo, squadRepo, squad.DefaultRules(), id.NewRandomGenerator(), logger)
	transferService := usecase.NewTransferService(playerRepo, roundRepo, squadRepo, squad.DefaultRules(), logger)
	playerService := usecase.NewPlayerService(playerRepo, cache.NewStore(time.Minute))
	roundService := usecase.NewRoundService(roundRepo)
	swapService := usecase.NewSwapSelectionService(squadService, cache.NewStore(time.Minute))

	handler := NewHandler(squadService, transferService, playerService, roundService, swapService, nil, logger)

	verifier, err := statictoken.NewVerifier("router-test-secret")
	if err != nil {
		t.Fatalf("create verifier failed: %v", err)
	}

	return NewRouter(handler, verifier, logger, []string{"*"}, testSyncToken), verifier
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	return body
}

func TestRouter_CreateAndFetchSquad(t *testing.T) {
	router, verifier := newTestRouter(t)
	token := verifier.Issue(user.Principal{UserID: "user-1"})

	ids := make([]string, 0, 15)
	for _, p := range routerCatalog() {
		ids = append(ids, `"`+p.ID+`"`)
	}
	payload := `{"league_id":"league-1","team_name":"Router FC","player_ids":[` + strings.Join(ids, ",") + `]}`

	req := httptest.NewRequest(http.MethodPost, "/v1/squads", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	data, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %s", rec.Body.String())
	}
	if got, _ := data["formation"].(string); got != string(squad.DefaultFormation) {
		t.Fatalf("unexpected formation: %v", data["formation"])
	}
	if got, _ := data["budget_remaining"].(float64); got != 12.5 {
		t.Fatalf("unexpected budget_remaining: %v", data["budget_remaining"])
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/squads/me?league_id=league-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ = decodeEnvelope(t, rec)["data"].(map[string]any)
	slots, _ := data["slots"].([]any)
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots, got %d", len(slots))
	}
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/squads/me?league_id=league-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_RejectsBadToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/squads/me?league_id=league-1", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_PublicPlayerListing(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/players?league_id=league-1&position=fwd&max_price=8.5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 forwards at or under 8.5, got %d", len(data))
	}
}

func TestRouter_CurrentRound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rounds/current?league_id=league-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if got, _ := data["id"].(string); got != "round-1" {
		t.Fatalf("unexpected round id: %v", data["id"])
	}
}

func TestRouter_InternalSyncTokenGate(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/catalog", strings.NewReader(`{"league_ids":["league-1"]}`))
	req.Header.Set("X-Internal-Sync-Token", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// Correct token but no sync service wired: the gate passes, the
	// handler reports the dependency as unavailable.
	req = httptest.NewRequest(http.MethodPost, "/v1/internal/sync/catalog", strings.NewReader(`{"league_ids":["league-1"]}`))
	req.Header.Set("X-Internal-Sync-Token", testSyncToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
