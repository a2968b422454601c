package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/rounds/current", handler.GetCurrentRound)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/squads", RequireAuth(verifier, http.HandlerFunc(handler.CreateSquad)))
	mux.Handle("GET /v1/squads/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMySquad)))
	mux.Handle("PUT /v1/squads/me/team-name", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeamName)))
	mux.Handle("PUT /v1/squads/me/formation", RequireAuth(verifier, http.HandlerFunc(handler.ChangeFormation)))
	mux.Handle("PUT /v1/squads/me/captain", RequireAuth(verifier, http.HandlerFunc(handler.SetCaptain)))
	mux.Handle("PUT /v1/squads/me/vice-captain", RequireAuth(verifier, http.HandlerFunc(handler.SetViceCaptain)))
	mux.Handle("POST /v1/squads/me/bench-swaps", RequireAuth(verifier, http.HandlerFunc(handler.SwapBench)))
	mux.Handle("POST /v1/squads/me/wildcard", RequireAuth(verifier, http.HandlerFunc(handler.ActivateWildcard)))
	mux.Handle("POST /v1/transfers", RequireAuth(verifier, http.HandlerFunc(handler.MakeTransfer)))

	// Two-step bench swap flow: pick one player, then its counterpart.
	mux.Handle("GET /v1/squads/me/swap-selection", RequireAuth(verifier, http.HandlerFunc(handler.GetSwapSelection)))
	mux.Handle("POST /v1/squads/me/swap-selection", RequireAuth(verifier, http.HandlerFunc(handler.StartSwapSelection)))
	mux.Handle("DELETE /v1/squads/me/swap-selection", RequireAuth(verifier, http.HandlerFunc(handler.CancelSwapSelection)))
	mux.Handle("POST /v1/squads/me/swap-selection/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteSwapSelection)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalSyncToken string) {
	mux.Handle("POST /v1/internal/sync/catalog", RequireInternalSyncToken(internalSyncToken, http.HandlerFunc(handler.RunCatalogSync)))
}
