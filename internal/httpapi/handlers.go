package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/tmarlow/cashout-backend/internal/hub"
	"github.com/tmarlow/cashout-backend/pkg/types"
)

// ListGames is a REST view of the open-game list the hub pushes over
// websocket.
func ListGames(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []types.OpenGame, 1)
		if !h.Send(hub.GetOpenGames{Reply: reply}) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}

		select {
		case games := <-reply:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(games)
		case <-r.Context().Done():
			http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
