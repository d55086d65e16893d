package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avelasco/cryptochat/backend/internal/handler/chart"
	"github.com/avelasco/cryptochat/backend/internal/handler/chat"
	"github.com/avelasco/cryptochat/backend/internal/handler/stream"
	voicehandler "github.com/avelasco/cryptochat/backend/internal/handler/voice"
	middlewarePkg "github.com/avelasco/cryptochat/backend/internal/middleware"
	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
	"github.com/avelasco/cryptochat/backend/internal/service/dispatch"
	"github.com/avelasco/cryptochat/backend/internal/service/voice"
	"github.com/avelasco/cryptochat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. hub may be nil when the
// voice channel is disabled.
func NewRouter(chatSvc *chatservice.Service, orch *dispatch.Orchestrator, hub *voice.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(chatSvc, orch)
	chartHandler := chart.New(chatSvc)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		chatHandler.RegisterRoutes(api)
		chartHandler.RegisterRoutes(api)

		if hub != nil {
			voicehandler.New(chatSvc, orch, hub).RegisterRoutes(api)

			streamHandler := stream.New(chatSvc, hub)
			api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
				streamHandler.HandleStream(w, r, chi.URLParam(r, "sessionID"))
			})
		} else {
			api.Get("/voice/ws/{sessionID}", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusNotImplemented, "voice channel not available")
			})
		}
	})

	return r
}
