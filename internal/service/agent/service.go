// Package agent runs the LLM-backed sales conversation: a react agent per
// session with the catalog tools bound, transcript bookkeeping, and the
// scripted greeting.
package agent

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"

	"github.com/oakview/vacationdesk/internal/catalog"
	"github.com/oakview/vacationdesk/internal/config"
)

//go:embed prompt.md
var systemPrompt string

// Service builds per-session conversations on top of one shared chat model.
type Service struct {
	chatModel model.ToolCallingChatModel
	catalog   catalog.Store
}

// NewService creates the chat model for the configured provider and returns a
// conversation factory bound to it.
func NewService(ctx context.Context, store catalog.Store, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(chatModel, store), nil
}

// NewServiceWithModel wires an existing chat model. Tests inject fakes here.
func NewServiceWithModel(chatModel model.ToolCallingChatModel, store catalog.Store) *Service {
	return &Service{chatModel: chatModel, catalog: store}
}

// NewConversation assembles the react agent and tool set for one session.
// Conversations are expensive to build; the session cache keeps them alive
// between requests.
func (s *Service) NewConversation(ctx context.Context, sessionID string) (*Conversation, error) {
	conv := &Conversation{
		sessionID: sessionID,
		catalog:   s.catalog,
	}

	tools, err := conv.tools()
	if err != nil {
		return nil, fmt.Errorf("failed to build tools for session %s: %w", sessionID, err)
	}

	ragent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: s.chatModel,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: tools},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build agent for session %s: %w", sessionID, err)
	}

	conv.agent = ragent
	log.Printf("[agent] session=%s conversation ready, tools=%d", sessionID, len(tools))
	return conv, nil
}
