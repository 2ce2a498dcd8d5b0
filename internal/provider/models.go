package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

const DefaultModel = "gpt-4o-mini"

const (
	openRouterPrefix = "openrouter/"
	ollamaPrefix     = "ollama/"
)

type providerInfo struct {
	baseURL  string
	keyEnv   string
	needsKey bool
}

// Every provider is reached through its OpenAI-compatible chat completion
// endpoint.
var providers = map[domain.Provider]providerInfo{
	domain.ProviderOpenAI:     {baseURL: "https://api.openai.com/v1/", keyEnv: "OPENAI_API_KEY", needsKey: true},
	domain.ProviderAnthropic:  {baseURL: "https://api.anthropic.com/v1/", keyEnv: "ANTHROPIC_API_KEY", needsKey: true},
	domain.ProviderOpenRouter: {baseURL: "https://openrouter.ai/api/v1/", keyEnv: "OPENROUTER_API_KEY", needsKey: true},
	domain.ProviderOllama:     {baseURL: "http://localhost:11434/v1/"},
}

// supportedModels is not exhaustive: any "openrouter/" or "ollama/" model is
// accepted as well.
var supportedModels = map[string]domain.Provider{
	"chatgpt-4o-latest": domain.ProviderOpenAI,
	"gpt-4o-mini":       domain.ProviderOpenAI,
	"gpt-3.5-turbo":     domain.ProviderOpenAI,
	"gpt-4":             domain.ProviderOpenAI,
	"gpt-4o":            domain.ProviderOpenAI,
	"gpt-4-turbo":       domain.ProviderOpenAI,
	"gpt-4.1":           domain.ProviderOpenAI,
	"gpt-4.1-mini":      domain.ProviderOpenAI,
	"o1":                domain.ProviderOpenAI,
	"o1-mini":           domain.ProviderOpenAI,
	"o3-mini":           domain.ProviderOpenAI,

	"claude-3-5-sonnet-20241022": domain.ProviderAnthropic,
	"claude-3-5-haiku-20241022":  domain.ProviderAnthropic,
	"claude-3-5-haiku-latest":    domain.ProviderAnthropic,
	"claude-3-5-sonnet-20240620": domain.ProviderAnthropic,
	"claude-3-haiku-20240307":    domain.ProviderAnthropic,
	"claude-3-opus-20240229":     domain.ProviderAnthropic,
	"claude-3-7-sonnet-latest":   domain.ProviderAnthropic,
}

// ResolveProvider maps a model name onto the provider that serves it.
func ResolveProvider(model string) (domain.Provider, error) {
	switch {
	case strings.HasPrefix(model, openRouterPrefix) && len(model) > len(openRouterPrefix):
		return domain.ProviderOpenRouter, nil
	case strings.HasPrefix(model, ollamaPrefix) && len(model) > len(ollamaPrefix):
		return domain.ProviderOllama, nil
	}
	if p, ok := supportedModels[model]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownModel, model)
}

// WireModel strips the routing prefix, yielding the name the provider expects.
func WireModel(model string) string {
	if rest, ok := strings.CutPrefix(model, openRouterPrefix); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(model, ollamaPrefix); ok {
		return rest
	}
	return model
}

// SupportedModels lists the statically known models in name order.
func SupportedModels() []string {
	out := make([]string, 0, len(supportedModels))
	for m := range supportedModels {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// KeyEnv names the environment variable holding the provider's API key, or
// "" when the provider needs none.
func KeyEnv(p domain.Provider) string {
	return providers[p].keyEnv
}
