package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	app_errors "portfolio-chat/backend/internal/errors"
	"portfolio-chat/backend/internal/model"
)

// AnthropicConfig carries the provider settings taken from the app config.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type anthropicProvider struct {
	client     anthropic.Client
	model      string
	configured bool
}

// NewAnthropicProvider builds a provider for the Anthropic Messages API.
// An empty API key yields a provider that refuses every request with
// ErrNotConfigured without touching the network.
func NewAnthropicProvider(cfg AnthropicConfig) Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retrying is the reader's call, not ours.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicProvider{
		client:     anthropic.NewClient(opts...),
		model:      cfg.Model,
		configured: cfg.APIKey != "",
	}
}

func (p *anthropicProvider) Configured() bool {
	return p.configured
}

func (p *anthropicProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	if !p.configured {
		return app_errors.ErrNotConfigured
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: req.MaxTokens,
		Messages:  toMessageParams(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" {
			continue
		}
		select {
		case ch <- StreamResponse{Content: text.Text}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("%w: %w", app_errors.ErrUpstream, err)
	}
	return nil
}

func toMessageParams(msgs []model.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == model.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
	}
	return out
}
