package model

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of a conversation as it travels between the
// browser (or terminal) client and the relay.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant" example:"user"`
	Content string `json:"content" validate:"required" example:"What's Angela's current role?"`
}

// ChatRequest is the body of the open chat relay endpoint.
type ChatRequest struct {
	Messages []Message `json:"messages" validate:"required,min=1,dive"`
}

// LearnRequest is the body of the contextual annotation relay endpoint.
// History is replayed as prior turns; Question is optional and, when empty,
// the turn asks for a short contextual note about SelectedText.
type LearnRequest struct {
	SelectedText string    `json:"selectedText" validate:"required" example:"Flexpa"`
	Question     string    `json:"question,omitempty" example:"What does Flexpa do?"`
	History      []Message `json:"history,omitempty" validate:"omitempty,dive"`
}

// StreamEvent is one unit of relay output handed from the service layer to
// the HTTP layer. Exactly one of the fields is meaningful: a text fragment,
// the terminal Done marker, or a terminal Error message.
type StreamEvent struct {
	Text  string
	Done  bool
	Error string
}

// IsTerminal reports whether the event ends the stream.
func (e StreamEvent) IsTerminal() bool {
	return e.Done || e.Error != ""
}
