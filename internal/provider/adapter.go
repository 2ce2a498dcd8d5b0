// Package provider talks to LLM providers through their OpenAI-compatible
// chat completion APIs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/KagemniKarimu/nyota/internal/domain"
	"github.com/KagemniKarimu/nyota/internal/metrics"
	"github.com/KagemniKarimu/nyota/internal/platform/retry"
)

const defaultMaxTokens = 1024

type Options struct {
	// APIKeys are keyed by environment variable name, e.g. "OPENAI_API_KEY".
	APIKeys map[string]string
	// BaseURLs overrides the endpoint per provider. Ollama's entry is
	// usually set from OLLAMA_URL.
	BaseURLs map[domain.Provider]string

	Timeout   time.Duration
	RateLimit float64 // requests per second
	MaxTokens int64
	Retry     retry.Policy
	Metrics   *metrics.ProviderMetrics
}

// Adapter holds one chat session's provider state: its keys and current
// model. Switching models is safe while a completion is in flight; the
// in-flight request keeps the model it started with.
type Adapter struct {
	opts    Options
	limiter *rate.Limiter

	mu       sync.RWMutex
	model    string
	provider domain.Provider
}

var _ domain.ChatProvider = (*Adapter)(nil)

func NewAdapter(model string, opts Options) (*Adapter, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 1
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	a := &Adapter{
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
	}
	if err := a.SetModel(model); err != nil {
		return nil, err
	}
	return a, nil
}

// SetModel switches the session to model. Unknown models and models whose
// provider has no API key configured are rejected and leave the current
// model in place.
func (a *Adapter) SetModel(model string) error {
	p, err := ResolveProvider(model)
	if err != nil {
		return err
	}
	if _, err := a.apiKey(p); err != nil {
		return err
	}

	a.mu.Lock()
	a.model, a.provider = model, p
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Model() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

func (a *Adapter) Provider() domain.Provider {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.provider
}

// Complete sends the history, preceded by the system prompt, to the current
// model and returns the assistant's reply.
func (a *Adapter) Complete(ctx context.Context, system string, history []domain.Message) (string, error) {
	a.mu.RLock()
	model, p := a.model, a.provider
	a.mu.RUnlock()

	key, err := a.apiKey(p)
	if err != nil {
		return "", err
	}
	client := openai.NewClient(
		option.WithBaseURL(a.baseURL(p)),
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(a.opts.Timeout),
	)
	params := a.buildParams(p, model, system, history)

	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	policy := a.opts.Retry
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.WarnContext(ctx, "Completion failed, retrying",
			"provider", p, "model", model, "attempt", attempt, "backoff", backoff, "error", err)
		if a.opts.Metrics != nil {
			a.opts.Metrics.Retries.WithLabelValues(string(p)).Inc()
		}
	}

	start := time.Now()
	reply, err := retry.Do(ctx, policy, classify, func(ctx context.Context) (string, error) {
		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return "", domain.ErrEmptyReply
		}
		return resp.Choices[0].Message.Content, nil
	})
	a.observe(p, start, err)
	if err != nil {
		return "", fmt.Errorf("%s completion with %s failed: %w", p, model, err)
	}
	return reply, nil
}

func (a *Adapter) buildParams(p domain.Provider, model, system string, history []domain.Message) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	for _, m := range history {
		switch m.Role {
		case domain.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    WireModel(model),
		Messages: messages,
	}
	// OpenAI's reasoning models reject max_tokens.
	if p == domain.ProviderOpenAI {
		params.MaxCompletionTokens = openai.Int(a.opts.MaxTokens)
	} else {
		params.MaxTokens = openai.Int(a.opts.MaxTokens)
	}
	return params
}

func (a *Adapter) apiKey(p domain.Provider) (string, error) {
	info, ok := providers[p]
	if !ok {
		return "", fmt.Errorf("unsupported provider %q", p)
	}
	if !info.needsKey {
		return "ollama", nil
	}
	key := a.opts.APIKeys[info.keyEnv]
	if key == "" {
		return "", fmt.Errorf("%w: set %s to use %s models", domain.ErrMissingAPIKey, info.keyEnv, p)
	}
	return key, nil
}

func (a *Adapter) baseURL(p domain.Provider) string {
	if u := a.opts.BaseURLs[p]; u != "" {
		return u
	}
	return providers[p].baseURL
}

func (a *Adapter) observe(p domain.Provider, start time.Time, err error) {
	if a.opts.Metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	a.opts.Metrics.RequestsTotal.WithLabelValues(string(p), result).Inc()
	a.opts.Metrics.RequestDuration.WithLabelValues(string(p)).Observe(time.Since(start).Seconds())
}

// classify decides how a failed completion is retried: rate limits back off
// longer, server errors and transport failures retry, everything else stops.
func classify(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrEmptyReply) {
		return retry.Stop
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return retry.After
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return retry.Retry
		default:
			return retry.Stop
		}
	}
	return retry.Retry
}
