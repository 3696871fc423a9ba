package chat

// ResponseCategory distinguishes the agent's final reply for a turn from
// progress sent while the turn is still being worked on.
type ResponseCategory string

const (
	CategoryFinal        ResponseCategory = "final"
	CategoryIntermediate ResponseCategory = "intermediate"
)

// ChatResponse is the chat reply payload, shared by the REST, SSE, and
// websocket surfaces. ResponseType mirrors the request's type.
type ChatResponse struct {
	ResponseType     RequestType      `json:"response_type"`
	ResponseCategory ResponseCategory `json:"response_category"`
	ResponseContent  string           `json:"response_content"`
}

// FinalResponse builds the standard end-of-turn reply.
func FinalResponse(t RequestType, content string) ChatResponse {
	return ChatResponse{
		ResponseType:     t,
		ResponseCategory: CategoryFinal,
		ResponseContent:  content,
	}
}

// IntermediateResponse builds a progress notification for live surfaces.
func IntermediateResponse(t RequestType, content string) ChatResponse {
	return ChatResponse{
		ResponseType:     t,
		ResponseCategory: CategoryIntermediate,
		ResponseContent:  content,
	}
}
