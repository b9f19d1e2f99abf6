package service

import (
	"context"
	"errors"
	"log/slog"

	app_errors "portfolio-chat/backend/internal/errors"
	"portfolio-chat/backend/internal/llm"
	"portfolio-chat/backend/internal/model"
	"portfolio-chat/backend/internal/prompt"
)

// RelayLimits caps the length of a single upstream turn per variant.
type RelayLimits struct {
	ChatMaxTokens  int64
	LearnMaxTokens int64
}

// RelayService turns a validated relay request into one upstream turn and
// forwards its fragments. It keeps no state between requests.
type RelayService struct {
	llm      llm.Provider
	composer *prompt.Composer
	limits   RelayLimits
}

func NewRelayService(provider llm.Provider, composer *prompt.Composer, limits RelayLimits) *RelayService {
	return &RelayService{llm: provider, composer: composer, limits: limits}
}

// CheckReady reports ErrNotConfigured when no upstream credential is present.
func (s *RelayService) CheckReady() error {
	if !s.llm.Configured() {
		return app_errors.ErrNotConfigured
	}
	return nil
}

// StreamChat relays an open chat turn. The messages are sent upstream as
// given, the last one being the new user turn.
func (s *RelayService) StreamChat(ctx context.Context, req *model.ChatRequest, out chan<- model.StreamEvent) {
	s.relay(ctx, "chat", &llm.GenerateRequest{
		System:    s.composer.Chat(),
		Messages:  req.Messages,
		MaxTokens: s.limits.ChatMaxTokens,
	}, out)
}

// StreamLearn relays an annotation turn: prior history followed by a user
// turn built from the selected text and the optional question.
func (s *RelayService) StreamLearn(ctx context.Context, req *model.LearnRequest, out chan<- model.StreamEvent) {
	messages := make([]model.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, model.Message{
		Role:    model.RoleUser,
		Content: s.composer.SelectionTurn(req.SelectedText, req.Question),
	})

	s.relay(ctx, "learn", &llm.GenerateRequest{
		System:    s.composer.Learn(),
		Messages:  messages,
		MaxTokens: s.limits.LearnMaxTokens,
	}, out)
}

// relay closes out after sending exactly one terminal event, unless ctx is
// cancelled first, in which case nothing further is sent.
func (s *RelayService) relay(ctx context.Context, variant string, req *llm.GenerateRequest, out chan<- model.StreamEvent) {
	defer close(out)

	llmStreamChan := make(chan llm.StreamResponse)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.llm.GenerateStream(ctx, req, llmStreamChan)
	}()

	fragments := 0
	for chunk := range llmStreamChan {
		if chunk.Content == "" {
			continue
		}
		if !send(ctx, out, model.StreamEvent{Text: chunk.Content}) {
			// The provider observes the same ctx and will close its channel.
			for range llmStreamChan {
			}
			break
		}
		fragments++
	}
	err := <-errCh

	if ctx.Err() != nil {
		slog.Info("Relay cancelled", "variant", variant, "fragments", fragments)
		return
	}
	if err != nil {
		slog.Warn("Relay failed", "variant", variant, "fragments", fragments, "error", err)
		send(ctx, out, model.StreamEvent{Error: errorMessage(err)})
		return
	}
	slog.Debug("Relay completed", "variant", variant, "fragments", fragments)
	send(ctx, out, model.StreamEvent{Done: true})
}

func send(ctx context.Context, out chan<- model.StreamEvent, ev model.StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// errorMessage picks the text shown to the reader for a failed turn.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, app_errors.ErrNotConfigured):
		return app_errors.ErrNotConfigured.Error()
	case err.Error() != "":
		return err.Error()
	default:
		return "Unknown error"
	}
}
