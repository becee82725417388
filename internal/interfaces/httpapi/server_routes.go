package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/season/week", handler.SeasonWeek)
	mux.HandleFunc("GET /v1/castaways", handler.ListCastaways)
	mux.HandleFunc("GET /v1/castaways/available", handler.ListAvailableCastaways)
	mux.HandleFunc("GET /v1/scoring/catalog", handler.GetScoringCatalog)
	mux.HandleFunc("GET /v1/eliminations", handler.ListEliminations)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/roster/draft", RequireAuth(verifier, http.HandlerFunc(handler.DraftRoster)))
	mux.Handle("GET /v1/leagues/{leagueID}/roster", RequireAuth(verifier, http.HandlerFunc(handler.GetRoster)))
	mux.Handle("POST /v1/leagues/{leagueID}/roster/changes", RequireAuth(verifier, http.HandlerFunc(handler.ApplyRosterChange)))
	mux.Handle("POST /v1/leagues/{leagueID}/roster/reset", RequireAuth(verifier, http.HandlerFunc(handler.ResetRoster)))
	mux.Handle("GET /v1/leagues/{leagueID}/roster/weeks/{week}", RequireAuth(verifier, http.HandlerFunc(handler.GetRosterWeek)))
}

func registerInternalAdminRoutes(mux *http.ServeMux, handler *Handler, internalAdminToken string) {
	mux.Handle("PUT /v1/internal/episodes/{episode}/events", RequireInternalAdminToken(internalAdminToken, http.HandlerFunc(handler.PutEpisodeEvents)))
	mux.Handle("GET /v1/internal/episodes/{episode}/points", RequireInternalAdminToken(internalAdminToken, http.HandlerFunc(handler.GetEpisodePoints)))
	mux.Handle("POST /v1/internal/eliminations", RequireInternalAdminToken(internalAdminToken, http.HandlerFunc(handler.MarkElimination)))
	mux.Handle("DELETE /v1/internal/eliminations", RequireInternalAdminToken(internalAdminToken, http.HandlerFunc(handler.UnmarkElimination)))
	mux.Handle("POST /v1/internal/recompute", RequireInternalAdminToken(internalAdminToken, http.HandlerFunc(handler.RunRecompute)))
}
