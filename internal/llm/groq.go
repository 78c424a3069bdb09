package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultGroqBaseURL is the Groq OpenAI-compatible chat completions endpoint.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider implements Provider against the Groq API, which speaks the
// OpenAI chat completions protocol.
type GroqProvider struct {
	client *openai.Client
	model  string
}

// NewGroqProvider creates a Groq provider. An empty baseURL uses
// DefaultGroqBaseURL.
func NewGroqProvider(apiKey, model, baseURL string) *GroqProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	cfg.BaseURL = baseURL
	return &GroqProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *GroqProvider) Name() string {
	return "groq"
}

func (p *GroqProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return completeChat(ctx, p.client, p.model, req)
}
