// Package openai provides a core.Backend wrapper for the OpenAI Chat
// Completions API, reduced to the prompt-to-text capability the orchestrator
// requires.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/crewkit-ai/crewkit/backend"
	"github.com/crewkit-ai/crewkit/core"
)

// Options configure the OpenAI backend adapter. Fields mirror a subset of
// Chat Completion parameters intentionally kept minimal; extend via
// functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	System              string
}

// Backend wraps the OpenAI Chat Completions API behind the core.Backend
// interface.
type Backend struct {
	client *openai.Client
	opts   Options
}

var _ core.Backend = (*Backend)(nil)

// New creates a new OpenAI backend using the official client. The API key is
// read from the environment by the SDK.
func New(optFns ...func(o *Options)) *Backend {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI backend from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Generate implements core.Backend using a non-streaming completion.
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if b.opts.System != "" {
		messages = append(messages, openai.SystemMessage(b.opts.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               b.opts.Model,
		Temperature:         openai.Float(b.opts.Temperature),
		MaxCompletionTokens: openai.Int(b.opts.MaxCompletionTokens),
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &backend.GenerationError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &backend.GenerationError{Provider: "openai", Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// Info returns metadata describing this OpenAI backend.
func (b *Backend) Info() core.BackendInfo {
	return core.BackendInfo{Name: b.opts.Model, Provider: "openai"}
}
