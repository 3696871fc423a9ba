package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/oakview/vacationdesk/internal/catalog"
	"github.com/oakview/vacationdesk/internal/model/travel"
	"github.com/oakview/vacationdesk/internal/service/agent"
	"github.com/oakview/vacationdesk/internal/service/session"
)

type scriptedModel struct {
	reply string
}

func (m *scriptedModel) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *scriptedModel) Stream(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

type stubStore struct{}

func (stubStore) Package(ctx context.Context) (travel.Package, error) {
	return travel.Package{
		PackageName: "Oakview Orlando Getaway",
		Destinations: []travel.Destination{
			{Destination: "ORLANDO"},
		},
	}, nil
}

func (stubStore) Availability(ctx context.Context, q catalog.AvailabilityQuery) (travel.Availability, error) {
	return travel.Availability{}, nil
}

func (stubStore) Accommodations(ctx context.Context, q catalog.AccommodationQuery) ([]travel.Accommodation, error) {
	return nil, nil
}

func setupHandler(t *testing.T, reply string) *Handler {
	t.Helper()

	svc := agent.NewServiceWithModel(&scriptedModel{reply: reply}, stubStore{})
	cache := session.New(session.Config{TTL: time.Minute, SweepInterval: -1}, svc.NewConversation)
	t.Cleanup(cache.Close)

	return New(cache)
}

func collectEvents(t *testing.T, body string) []StreamResponse {
	t.Helper()

	var events []StreamResponse
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev StreamResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("unmarshal event %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestFirstContactStreamsGreeting(t *testing.T) {
	h := setupHandler(t, "should not be called")

	rec := httptest.NewRecorder()
	if err := h.HandleStreamRequest(context.Background(), rec, "sess-1", "hello"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected SSE content type, got %q", ct)
	}

	events := collectEvents(t, rec.Body.String())
	if len(events) != 3 {
		t.Fatalf("expected start/message/end, got %d events", len(events))
	}
	if events[0].Event != "start" {
		t.Fatalf("expected start event, got %q", events[0].Event)
	}
	if events[1].Event != "message" || !strings.Contains(events[1].Content, "ORLANDO") {
		t.Fatalf("expected greeting message, got %+v", events[1])
	}
	if events[2].Event != "end" || !events[2].Finished {
		t.Fatalf("expected finished end event, got %+v", events[2])
	}
}

func TestSecondTurnStreamsAgentReply(t *testing.T) {
	h := setupHandler(t, "Sounds great, let's continue.")

	first := httptest.NewRecorder()
	if err := h.HandleStreamRequest(context.Background(), first, "sess-2", "hello"); err != nil {
		t.Fatalf("greeting turn err: %v", err)
	}

	second := httptest.NewRecorder()
	if err := h.HandleStreamRequest(context.Background(), second, "sess-2", "Yes, Orlando"); err != nil {
		t.Fatalf("agent turn err: %v", err)
	}

	events := collectEvents(t, second.Body.String())
	if len(events) < 3 {
		t.Fatalf("expected at least start/message/end, got %d events", len(events))
	}

	var sawDelta, sawMessage bool
	for _, ev := range events {
		switch ev.Event {
		case "delta":
			sawDelta = true
		case "message":
			sawMessage = true
			if ev.Content != "Sounds great, let's continue." {
				t.Fatalf("unexpected merged reply %q", ev.Content)
			}
		}
	}
	if !sawDelta {
		t.Fatal("expected at least one delta event")
	}
	if !sawMessage {
		t.Fatal("expected a final message event")
	}

	last := events[len(events)-1]
	if last.Event != "end" || !last.Finished {
		t.Fatalf("expected finished end event, got %+v", last)
	}
}
