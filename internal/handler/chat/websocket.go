package chat

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/oakview/vacationdesk/internal/model/chat"
	"github.com/oakview/vacationdesk/internal/service/agent"
	"github.com/oakview/vacationdesk/internal/service/session"
)

// WebSocketHandler serves the live chat surface. One socket carries one
// session; tool progress is pushed as intermediate responses between turns.
type WebSocketHandler struct {
	conversations *session.Cache[*agent.Conversation]
	upgrader      websocket.Upgrader
}

// NewWebSocketHandler creates the websocket chat handler.
func NewWebSocketHandler(conversations *session.Cache[*agent.Conversation]) *WebSocketHandler {
	return &WebSocketHandler{
		conversations: conversations,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the websocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type wsFrame struct {
	Type      string             `json:"type"`
	SessionID string             `json:"sessionId,omitempty"`
	Response  *chat.ChatResponse `json:"response,omitempty"`
	Error     string             `json:"error,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

// handleWebSocket upgrades the connection and runs the session's read loop.
// Clients may pass ?session=<id> to resume a session; otherwise a fresh id is
// assigned and announced in the connected frame.
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.conversations == nil {
		http.Error(w, "chat agent unavailable", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	conv, created, err := h.conversations.GetOrCreate(ctx, sessionID)
	if err != nil {
		log.Printf("[websocket] session=%s failed to build conversation: %v", sessionID, err)
		h.sendError(conn, sessionID, "failed to start conversation")
		return
	}

	h.send(conn, wsFrame{Type: "connected", SessionID: sessionID})

	if created {
		greeting := conv.Greeting(ctx)
		h.sendResponse(conn, sessionID, chat.FinalResponse(chat.RequestTypeText, greeting))
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var req chat.ChatRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if req.RequestSession != "" && req.RequestSession != sessionID {
				h.sendError(conn, sessionID, "session mismatch")
				continue
			}
			if req.RequestType == "" {
				req.RequestType = chat.RequestTypeText
			}
			if !req.RequestType.Valid() {
				h.sendError(conn, sessionID, "unsupported request type: "+string(req.RequestType))
				continue
			}
			if req.RequestContent == "" {
				continue
			}

			h.runTurn(ctx, conn, conv, req)
		}
	}
}

// runTurn executes one agent turn, pushing tool progress as intermediate
// responses before the final reply.
func (h *WebSocketHandler) runTurn(ctx context.Context, conn *websocket.Conn, conv *agent.Conversation, req chat.ChatRequest) {
	notify := func(tool string) {
		h.sendResponse(conn, conv.SessionID(), chat.IntermediateResponse(req.RequestType, progressText(tool)))
	}

	reply, err := conv.Send(ctx, req.RequestContent, agent.WithToolNotifier(notify))
	if err != nil {
		log.Printf("[websocket] session=%s agent error: %v", conv.SessionID(), err)
		h.sendResponse(conn, conv.SessionID(), chat.FinalResponse(req.RequestType, agentApology))
		return
	}

	h.sendResponse(conn, conv.SessionID(), chat.FinalResponse(req.RequestType, reply))
}

// progressText maps a tool invocation to the text shown while it runs.
func progressText(tool string) string {
	switch tool {
	case "verify_zip_code":
		return "Checking that zip code..."
	case "get_availability":
		return "Checking available dates..."
	case "get_accommodations":
		return "Finding accommodations..."
	case "get_package_summary":
		return "Looking up your package details..."
	case "record_booking_summary":
		return "Recording your booking summary..."
	}
	return "Working on it..."
}

func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, sessionID string, resp chat.ChatResponse) {
	h.send(conn, wsFrame{
		Type:      "response",
		SessionID: sessionID,
		Response:  &resp,
	})
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, wsFrame{
		Type:      "error",
		SessionID: sessionID,
		Error:     message,
	})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, frame wsFrame) {
	frame.Timestamp = time.Now().Unix()
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[websocket] write failed: %v", err)
	}
}

// pingLoop keeps the connection alive under the 60s read deadline.
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
