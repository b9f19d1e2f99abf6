package conversation

import "portfolio-chat/backend/internal/model"

// Kind distinguishes the open chat thread from per-selection annotations.
type Kind string

const (
	KindChat       Kind = "chat"
	KindAnnotation Kind = "annotation"
)

// Fallback texts substituted when a turn fails before producing any text.
const (
	ChatFallback       = "Sorry, the chat isn't available right now. Check back soon!"
	AnnotationFallback = "Couldn't load context right now. Try again in a moment."
)

type target int

const (
	targetNone target = iota
	targetContext
	targetAnswer
)

// Card is one conversation thread. Cards handed out by a Store are snapshots:
// their Messages slices are never modified afterwards.
type Card struct {
	ID          string
	Kind        Kind
	SubjectText string
	Context     string
	Messages    []model.Message
	IsStreaming bool
	IsPinned    bool

	// target is the live accumulation target while IsStreaming is set.
	target target
}

// Answering reports whether the in-flight turn grows the last assistant
// message rather than the context.
func (c Card) Answering() bool {
	return c.IsStreaming && c.target == targetAnswer
}

func (c Card) fallback() string {
	if c.Kind == KindChat {
		return ChatFallback
	}
	return AnnotationFallback
}

// withAppended returns a copy of msgs with extra appended, leaving msgs
// untouched.
func withAppended(msgs []model.Message, extra ...model.Message) []model.Message {
	out := make([]model.Message, 0, len(msgs)+len(extra))
	out = append(out, msgs...)
	return append(out, extra...)
}

// requestHistory returns the turns of msgs worth replaying to the relay. An
// assistant turn that finished without any text carries nothing and would be
// rejected, so it is left out.
func requestHistory(msgs []model.Message) []model.Message {
	var out []model.Message
	for _, m := range msgs {
		if m.Role == model.RoleAssistant && m.Content == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// withLastContent returns a copy of msgs whose last element has content set.
func withLastContent(msgs []model.Message, content string) []model.Message {
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	out[len(out)-1].Content = content
	return out
}
