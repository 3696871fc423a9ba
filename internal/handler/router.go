package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	catalogStore "github.com/oakview/vacationdesk/internal/catalog"
	"github.com/oakview/vacationdesk/internal/handler/catalog"
	"github.com/oakview/vacationdesk/internal/handler/chat"
	"github.com/oakview/vacationdesk/internal/handler/static"
	"github.com/oakview/vacationdesk/internal/handler/stream"
	middlewarePkg "github.com/oakview/vacationdesk/internal/middleware"
	"github.com/oakview/vacationdesk/internal/service/agent"
	"github.com/oakview/vacationdesk/internal/service/session"
	"github.com/oakview/vacationdesk/pkg/utils"
)

// NewRouter wires HTTP routes to core services. A nil conversation cache
// disables the chat surfaces; the catalog and UI stay up regardless.
func NewRouter(conversations *session.Cache[*agent.Conversation], store catalogStore.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// Create handlers
	chatHandler := chat.New(conversations)
	wsHandler := chat.NewWebSocketHandler(conversations)
	catalogHandler := catalog.New(store)

	var streamHandler *stream.Handler
	if conversations != nil {
		streamHandler = stream.New(conversations)
	}

	chatHandler.RegisterRoutes(r)
	wsHandler.RegisterWebSocketRoutes(r)

	// Streaming variant of POST /chat. Errors after the stream opens are
	// reported in-band as SSE error events.
	r.Get("/chat/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		userMessage := r.URL.Query().Get("message")

		if streamHandler == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "chat streaming unavailable")
			return
		}
		if userMessage == "" {
			utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
			return
		}

		if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
			log.Printf("[stream] error handling request: %v", err)
		}
	})

	r.Route("/api", func(api chi.Router) {
		catalogHandler.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Embedded chat UI at / with assets under /static/.
	r.Handle("/*", static.Handler())

	return r
}
