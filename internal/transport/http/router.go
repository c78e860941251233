package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"quizquest-service/internal/app"
)

// NewRouter mounts health, catalog and websocket routes behind CORS.
func NewRouter(service *app.WorkspaceService, ws *WSHandler, corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/catalog", catalogHandler(service)).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS)

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
}

func catalogHandler(service *app.WorkspaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizzes, err := service.Catalog(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("load catalog")
			http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(quizzes); err != nil {
			log.Warn().Err(err).Msg("write catalog")
		}
	}
}
