// Package stream serves chat turns over Server-Sent Events, pushing model
// deltas as they arrive instead of waiting for the full reply.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"

	"github.com/oakview/vacationdesk/internal/service/agent"
	"github.com/oakview/vacationdesk/internal/service/session"
	"github.com/oakview/vacationdesk/pkg/utils"
)

// Handler manages streaming chat responses via Server-Sent Events.
type Handler struct {
	conversations *session.Cache[*agent.Conversation]
}

// New creates a new stream handler.
func New(conversations *session.Cache[*agent.Conversation]) *Handler {
	return &Handler{conversations: conversations}
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest runs one chat turn for the session and streams the
// reply. The first request for a session emits the scripted greeting without
// consulting the model, matching the REST surface.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	conv, created, err := h.conversations.GetOrCreate(ctx, sessionID)
	if err != nil {
		log.Printf("[stream] session=%s failed to build conversation: %v", sessionID, err)
		h.sendSSEError(w, flusher, "failed to start conversation")
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	if created {
		greeting := conv.Greeting(ctx)
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "message",
			SessionID: sessionID,
			Content:   greeting,
		})
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "end",
			SessionID: sessionID,
			Finished:  true,
		})
		log.Printf("[stream] sent greeting for session=%s", sessionID)
		return nil
	}

	reply, err := h.streamAgentReply(ctx, w, flusher, sessionID, conv, userMessage)
	if err != nil {
		log.Printf("[stream] session=%s agent error: %v", sessionID, err)
		h.sendSSEError(w, flusher, "agent streaming failed")
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s", sessionID)
	return nil
}

// streamAgentReply drains the agent's stream, forwarding deltas, then commits
// the merged reply to the transcript and emits it as a message event.
func (h *Handler) streamAgentReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, conv *agent.Conversation, userMessage string) (string, error) {
	stream, err := conv.SendStream(ctx, userMessage)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: sessionID,
				Content:   chunk.Content,
			})
		}
	}

	merged, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}

	conv.CommitReply(merged.Content)

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   merged.Content,
	})

	return merged.Content, nil
}

// sendSSE sends a Server-Sent Event.
func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

// sendSSEError sends an error via Server-Sent Events.
func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.sendSSE(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}
