package interfaces

import (
	"context"

	"portfolio-chat/backend/internal/model"
)

// This file defines the interfaces for our core services.
// The API layer depends on these rather than on concrete types.

// RelayService defines the contract for relaying one upstream turn.
type RelayService interface {
	CheckReady() error
	StreamChat(ctx context.Context, req *model.ChatRequest, out chan<- model.StreamEvent)
	StreamLearn(ctx context.Context, req *model.LearnRequest, out chan<- model.StreamEvent)
}
