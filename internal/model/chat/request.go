package chat

// RequestType classifies the content of an inbound chat message.
type RequestType string

const (
	RequestTypeText  RequestType = "text"
	RequestTypeImage RequestType = "image"
	RequestTypeAudio RequestType = "audio"
)

// Valid reports whether the type is one the API accepts.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeText, RequestTypeImage, RequestTypeAudio:
		return true
	}
	return false
}

// ChatRequest is the POST /chat payload. Session identifiers are opaque
// client-generated strings; content is carried verbatim regardless of type.
type ChatRequest struct {
	RequestType    RequestType `json:"request_type"`
	RequestContent string      `json:"request_content"`
	RequestSession string      `json:"request_session"`
}
