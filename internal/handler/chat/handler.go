package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
	"github.com/avelasco/cryptochat/backend/internal/service/dispatch"
	"github.com/avelasco/cryptochat/backend/pkg/utils"
)

// Handler exposes session and message endpoints.
type Handler struct {
	chatSvc *chatservice.Service
	orch    *dispatch.Orchestrator
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, orch *dispatch.Orchestrator) *Handler {
	return &Handler{chatSvc: chatSvc, orch: orch}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
	r.Post("/messages", h.handleMessage)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.chatSvc.CreateSession(r.Context())
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conv, err := h.chatSvc.Get(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"turns":     conv.Log.Turns(),
	})
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	conv, err := h.chatSvc.Get(r.Context(), payload.SessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatservice.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	result := h.orch.Dispatch(r.Context(), conv, payload.Text)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply": result.Reply,
		"speak": result.Speak,
		"chart": result.Series != nil,
	})
}
