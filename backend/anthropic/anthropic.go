// Package anthropic provides a core.Backend wrapper for the Anthropic Claude
// API, reduced to the prompt-to-text capability the orchestrator requires.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/crewkit-ai/crewkit/backend"
	"github.com/crewkit-ai/crewkit/core"
)

// Options configures the Anthropic backend adapter (model id, temperature,
// max tokens, API key, system prompt). Extend via functional options to
// preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	System      string
}

// Backend wraps the Anthropic Messages API behind the core.Backend interface.
type Backend struct {
	client *anthropic.Client
	opts   Options
}

var _ core.Backend = (*Backend)(nil)

// New creates a new Anthropic backend using the official client.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)
	return &Backend{client: &client, opts: opts}
}

// NewFromClient creates a new Anthropic backend from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Generate implements core.Backend using the non-streaming Messages API.
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       b.opts.Model,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		MaxTokens:   b.opts.MaxTokens,
		Temperature: anthropic.Float(b.opts.Temperature),
	}
	if b.opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: b.opts.System}}
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", &backend.GenerationError{Provider: "anthropic", Err: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

// Info returns metadata describing this Anthropic backend.
func (b *Backend) Info() core.BackendInfo {
	return core.BackendInfo{Name: string(b.opts.Model), Provider: "anthropic"}
}
