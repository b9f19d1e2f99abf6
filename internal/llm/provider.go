package llm

import (
	"context"

	"portfolio-chat/backend/internal/model"
)

// StreamResponse is one text fragment emitted by the provider.
type StreamResponse struct {
	Content string
}

// GenerateRequest describes a single upstream turn. The model name is fixed
// by provider configuration.
type GenerateRequest struct {
	System    string
	Messages  []model.Message
	MaxTokens int64
}

// Provider defines the interface for interacting with the language model.
type Provider interface {
	// Configured reports whether credentials are present.
	Configured() bool
	// GenerateStream sends fragments to ch in the order the provider emits
	// them and always closes ch before returning. The returned error is the
	// terminal outcome of the turn; nil means the stream ended normally.
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error
}
