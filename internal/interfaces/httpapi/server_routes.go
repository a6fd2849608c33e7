package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/rosters/validate", handler.ValidateRoster)
	mux.HandleFunc("GET /v1/rosters/constraints", handler.GetRosterConstraints)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/gameweeks/{gameweek}/settlement",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SettleGameweek)))
}
