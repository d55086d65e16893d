// Package voice bridges browser voice clients to the dispatch engine over
// a websocket: recognized transcripts come in, turn/speak/chart events go
// out. The browser performs the actual speech synthesis and recognition.
package voice

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
	"github.com/avelasco/cryptochat/backend/internal/service/dispatch"
	voiceservice "github.com/avelasco/cryptochat/backend/internal/service/voice"
)

// Handler upgrades voice clients and pumps events both ways.
type Handler struct {
	chatSvc  *chatservice.Service
	orch     *dispatch.Orchestrator
	hub      *voiceservice.Hub
	upgrader websocket.Upgrader
}

// New creates the websocket voice handler.
func New(chatSvc *chatservice.Service, orch *dispatch.Orchestrator, hub *voiceservice.Hub) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		orch:    orch,
		hub:     hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/voice/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conv, err := h.chatSvc.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[voice] client connected session=%s", sessionID)
	defer log.Printf("[voice] client disconnected session=%s", sessionID)

	events, cancel := h.hub.Subscribe(sessionID)
	defer cancel()

	done := make(chan struct{})
	go h.writeLoop(conn, events, done)
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[voice] read error session=%s: %v", sessionID, err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[voice] malformed message session=%s: %v", sessionID, err)
			continue
		}

		switch msg.Type {
		case "transcript":
			// A recognized utterance is dispatched exactly as if typed.
			h.orch.Dispatch(r.Context(), conv, msg.Text)
		case "ping":
			// Keepalive only.
		default:
			log.Printf("[voice] unknown message type %q session=%s", msg.Type, sessionID)
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, events <-chan voiceservice.Event, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, open := <-events:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[voice] write failed: %v", err)
				return
			}
		}
	}
}
