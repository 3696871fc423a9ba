package chat

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakview/vacationdesk/internal/model/chat"
	"github.com/oakview/vacationdesk/internal/service/agent"
	"github.com/oakview/vacationdesk/internal/service/session"
)

// agentApology is the reply surfaced when the agent fails mid-turn. The
// underlying error is logged server-side only.
const agentApology = "I'm sorry, I ran into a problem while handling that. Could you try again?"

// Handler serves the chat endpoints. A nil conversation cache means the
// model is not configured; chat requests then answer 503.
type Handler struct {
	conversations *session.Cache[*agent.Conversation]
}

// New creates the chat handler.
func New(conversations *session.Cache[*agent.Conversation]) *Handler {
	return &Handler{conversations: conversations}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/{sessionID}/transcript", h.handleTranscript)
	r.Get("/chat/{sessionID}/summary", h.handleSummary)
}

// handleChat answers one chat turn. The first request for a session returns
// the scripted greeting; any content it carries is deliberately left for the
// next request, matching the chat UI's opening exchange.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RequestSession == "" {
		respondError(w, http.StatusBadRequest, "request_session is required")
		return
	}
	if !req.RequestType.Valid() {
		respondError(w, http.StatusBadRequest, "unsupported request_type")
		return
	}

	if h.conversations == nil {
		respondError(w, http.StatusServiceUnavailable, "chat agent unavailable")
		return
	}

	conv, created, err := h.conversations.GetOrCreate(r.Context(), req.RequestSession)
	if err != nil {
		log.Printf("[chat] session=%s failed to build conversation: %v", req.RequestSession, err)
		respondError(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}

	if created {
		log.Printf("[chat] session=%s new session, sending greeting", req.RequestSession)
		greeting := conv.Greeting(r.Context())
		respondJSON(w, http.StatusOK, chat.FinalResponse(req.RequestType, greeting))
		return
	}

	reply, err := conv.Send(r.Context(), req.RequestContent)
	if err != nil {
		log.Printf("[chat] session=%s agent error: %v", req.RequestSession, err)
		respondJSON(w, http.StatusOK, chat.FinalResponse(req.RequestType, agentApology))
		return
	}

	respondJSON(w, http.StatusOK, chat.FinalResponse(req.RequestType, reply))
}

// handleTranscript returns the session's transcript so far.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookup(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": conv.SessionID(),
		"messages":  conv.History(),
	})
}

// handleSummary returns the booking summary once the agent has recorded one.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookup(w, r)
	if !ok {
		return
	}

	summary, recorded := conv.Summary()
	if !recorded {
		respondError(w, http.StatusNotFound, "no booking summary recorded")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// lookup resolves the session from the URL without creating one.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*agent.Conversation, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "sessionID is required")
		return nil, false
	}

	if h.conversations == nil {
		respondError(w, http.StatusServiceUnavailable, "chat agent unavailable")
		return nil, false
	}

	conv, ok := h.conversations.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return conv, true
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
