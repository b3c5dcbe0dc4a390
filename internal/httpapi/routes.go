package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tmarlow/cashout-backend/internal/hub"
	"github.com/tmarlow/cashout-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/games", ListGames(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log.Named("ws")))
	return r
}
