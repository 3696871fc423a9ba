package agent

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/oakview/vacationdesk/internal/catalog"
	"github.com/oakview/vacationdesk/internal/model/chat"
	"github.com/oakview/vacationdesk/internal/model/travel"
)

// Transcript sender labels.
const (
	senderUser      = "user"
	senderAssistant = "assistant"
)

const greetingFallback = "Hello! I'm your vacation assistant. I'd be happy to help you plan your trip."

// Conversation is one session's live agent: the compiled react agent with its
// tool set, the running transcript, and the booking summary once recorded.
// Safe for concurrent use.
type Conversation struct {
	sessionID string
	agent     *react.Agent
	catalog   catalog.Store

	mu       sync.Mutex
	messages []chat.Message
	summary  *travel.BookingSummary
}

// SessionID returns the session this conversation belongs to.
func (c *Conversation) SessionID() string {
	return c.sessionID
}

// Greeting returns the scripted session opener and records it as the first
// assistant turn. No model call is made; the destination comes straight from
// the catalog.
func (c *Conversation) Greeting(ctx context.Context) string {
	text := greetingFallback

	pkg, err := c.catalog.Package(ctx)
	if err != nil {
		log.Printf("[agent] session=%s greeting fell back, package lookup failed: %v", c.sessionID, err)
	} else if dest, ok := pkg.PrimaryDestination(); ok {
		text = fmt.Sprintf("Hello! I'm your vacation assistant. I'd be happy to help you plan your trip. Would you like to go ahead with this %s or explore some alternative options?", dest.Destination)
	} else {
		log.Printf("[agent] session=%s greeting fell back, package has no destinations", c.sessionID)
	}

	c.append(senderAssistant, text)
	return text
}

// Send runs one exchange: the user turn is recorded, the agent reasons over
// the full transcript calling tools as needed, and the reply is recorded and
// returned. On error the user turn stays in the transcript so a retry keeps
// its context.
func (c *Conversation) Send(ctx context.Context, text string, opts ...SendOption) (string, error) {
	options := applySendOptions(opts)
	c.append(senderUser, text)

	reply, err := c.agent.Generate(ctx, c.modelInput(), options.agentOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to run agent for session %s: %w", c.sessionID, err)
	}

	c.append(senderAssistant, reply.Content)
	log.Printf("[agent] session=%s generated reply, length=%d", c.sessionID, len(reply.Content))
	return reply.Content, nil
}

// SendStream starts a streamed exchange. The user turn is recorded
// immediately; the caller drains the returned stream and commits the
// assembled reply with CommitReply.
func (c *Conversation) SendStream(ctx context.Context, text string, opts ...SendOption) (*schema.StreamReader[*schema.Message], error) {
	options := applySendOptions(opts)
	c.append(senderUser, text)

	stream, err := c.agent.Stream(ctx, c.modelInput(), options.agentOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to stream agent output for session %s: %w", c.sessionID, err)
	}
	return stream, nil
}

// CommitReply records the assistant reply assembled from a streamed exchange.
func (c *Conversation) CommitReply(text string) {
	c.append(senderAssistant, text)
}

// History returns a copy of the transcript so far.
func (c *Conversation) History() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make([]chat.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// Summary returns the booking summary recorded by the agent, if any.
func (c *Conversation) Summary() (travel.BookingSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.summary == nil {
		return travel.BookingSummary{}, false
	}
	return *c.summary, true
}

func (c *Conversation) recordSummary(s travel.BookingSummary) {
	c.mu.Lock()
	c.summary = &s
	c.mu.Unlock()
}

func (c *Conversation) append(sender, content string) {
	msg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: c.sessionID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
}

// modelInput renders the transcript as model messages behind the system
// prompt. Tool activity inside a turn is not replayed; only the user and
// assistant turns carry across exchanges.
func (c *Conversation) modelInput() []*schema.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	input := make([]*schema.Message, 0, len(c.messages)+1)
	input = append(input, schema.SystemMessage(systemPrompt))
	for _, msg := range c.messages {
		switch msg.Sender {
		case senderUser:
			input = append(input, schema.UserMessage(msg.Content))
		case senderAssistant:
			input = append(input, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return input
}
