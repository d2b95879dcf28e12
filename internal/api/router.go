package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gridbattle/internal/arena"
	"gridbattle/internal/battle"
	"gridbattle/internal/logging"
)

// NewRouter exposes the arena over HTTP: state reads, the two commands and
// the spectator websocket.
func NewRouter(a *arena.Arena) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":         true,
			"match":      a.Match.ID(),
			"phase":      a.Match.Phase(),
			"spectators": a.Spectators(),
		})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.Match.Snapshot())
	}).Methods(http.MethodGet)
	api.HandleFunc("/classes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, battle.ClassTable())
	}).Methods(http.MethodGet)
	api.HandleFunc("/{command:start|restart}", func(w http.ResponseWriter, r *http.Request) {
		cmd := arena.Command{Type: mux.Vars(r)["command"]}
		if err := a.Command(cmd); err != nil {
			status := http.StatusConflict
			if errors.Is(err, arena.ErrUnknownCommand) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, a.Match.Snapshot())
	}).Methods(http.MethodPost)

	r.HandleFunc("/ws", arena.NewWebsocketHandler(a))
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("write response", err, nil)
	}
}
