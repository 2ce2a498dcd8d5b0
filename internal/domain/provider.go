package domain

import "context"

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenRouter Provider = "openrouter"
	ProviderOllama     Provider = "ollama"
)

// ChatProvider produces an assistant reply for a message history.
type ChatProvider interface {
	Complete(ctx context.Context, system string, history []Message) (string, error)
	Model() string
	Provider() Provider
}
