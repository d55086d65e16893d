// Package stream pushes conversation events to browsers over SSE.
package stream

import (
	"log"
	"net/http"
	"time"

	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
	"github.com/avelasco/cryptochat/backend/internal/service/voice"
	"github.com/avelasco/cryptochat/backend/pkg/utils"
)

// Handler streams hub events for one session as Server-Sent Events.
type Handler struct {
	chatSvc *chatservice.Service
	hub     *voice.Hub
}

// New creates a stream handler.
func New(chatSvc *chatservice.Service, hub *voice.Hub) *Handler {
	return &Handler{chatSvc: chatSvc, hub: hub}
}

// HandleStream subscribes the client to turn/speak/chart events. A
// heartbeat keeps idle connections alive.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request, sessionID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if _, err := h.chatSvc.Get(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.hub.Subscribe(sessionID)
	defer cancel()

	ctx := r.Context()
	log.Printf("[sse] opening stream for session=%s", sessionID)
	defer log.Printf("[sse] closing stream for session=%s", sessionID)

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, event.Type, event)
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		}
	}
}
