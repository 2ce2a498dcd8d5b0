package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KagemniKarimu/nyota/internal/domain"
	"github.com/KagemniKarimu/nyota/internal/metrics"
	"github.com/KagemniKarimu/nyota/internal/platform/retry"
)

type capturedRequest struct {
	Path          string
	Authorization string
	Body          map[string]any
}

// fakeCompletions answers chat completion requests. Each request takes the
// next status from statuses; once they run out every request succeeds.
type fakeCompletions struct {
	statuses []int
	reply    string
	calls    atomic.Int32
	last     atomic.Pointer[capturedRequest]
}

func (f *fakeCompletions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(f.calls.Add(1)) - 1

	req := &capturedRequest{Path: r.URL.Path, Authorization: r.Header.Get("Authorization")}
	_ = json.NewDecoder(r.Body).Decode(&req.Body)
	f.last.Store(req)

	w.Header().Set("Content-Type", "application/json")
	if n < len(f.statuses) {
		w.WriteHeader(f.statuses[n])
		_, _ = fmt.Fprintf(w, `{"error":{"message":"status %d","type":"test_error"}}`, f.statuses[n])
		return
	}
	_, _ = fmt.Fprintf(w, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "test",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %q}}]
	}`, f.reply)
}

func newTestAdapter(t *testing.T, model string, fake *fakeCompletions, m *metrics.ProviderMetrics) *Adapter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	base := srv.URL + "/v1/"
	a, err := NewAdapter(model, Options{
		APIKeys: map[string]string{
			"OPENAI_API_KEY":     "sk-openai",
			"ANTHROPIC_API_KEY":  "sk-anthropic",
			"OPENROUTER_API_KEY": "sk-openrouter",
		},
		BaseURLs: map[domain.Provider]string{
			domain.ProviderOpenAI:     base,
			domain.ProviderAnthropic:  base,
			domain.ProviderOpenRouter: base,
			domain.ProviderOllama:     base,
		},
		Timeout: 5 * time.Second,
		Retry: retry.Policy{
			MaxAttempts:      3,
			InitialBackoff:   time.Millisecond,
			RateLimitBackoff: 2 * time.Millisecond,
		},
		Metrics: m,
	})
	require.NoError(t, err)
	return a
}

func history(texts ...string) []domain.Message {
	out := make([]domain.Message, 0, len(texts))
	for i, text := range texts {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		out = append(out, domain.Message{Role: role, Content: text})
	}
	return out
}

func TestAdapter_Complete(t *testing.T) {
	fake := &fakeCompletions{reply: "Hello there!"}
	m := metrics.NewProviderMetrics(prometheus.NewRegistry())
	a := newTestAdapter(t, "gpt-4o-mini", fake, m)

	reply, err := a.Complete(context.Background(), "be kind", history("hi", "hey", "how are you?"))
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", reply)

	req := fake.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, "/v1/chat/completions", req.Path)
	assert.Equal(t, "Bearer sk-openai", req.Authorization)
	assert.Equal(t, "gpt-4o-mini", req.Body["model"])
	assert.Contains(t, req.Body, "max_completion_tokens")
	assert.NotContains(t, req.Body, "max_tokens")

	msgs, ok := req.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	roles := make([]string, 0, len(msgs))
	for _, raw := range msgs {
		roles = append(roles, raw.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)

	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("openai", "success")), 0)
}

func TestAdapter_CompleteStripsRoutingPrefix(t *testing.T) {
	fake := &fakeCompletions{reply: "ok"}
	a := newTestAdapter(t, "openrouter/meta-llama/llama-3-8b-instruct", fake, nil)

	_, err := a.Complete(context.Background(), "", history("hi"))
	require.NoError(t, err)

	req := fake.last.Load()
	assert.Equal(t, "meta-llama/llama-3-8b-instruct", req.Body["model"])
	assert.Equal(t, "Bearer sk-openrouter", req.Authorization)
	assert.Contains(t, req.Body, "max_tokens")
}

func TestAdapter_CompleteRetries(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantErr   bool
		wantCalls int32
	}{
		{"server error then success", []int{500}, false, 2},
		{"rate limited then success", []int{429, 503}, false, 3},
		{"bad request is not retried", []int{400}, true, 1},
		{"unauthorized is not retried", []int{401}, true, 1},
		{"gives up after max attempts", []int{500, 500, 500, 500}, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompletions{statuses: tt.statuses, reply: "ok"}
			m := metrics.NewProviderMetrics(prometheus.NewRegistry())
			a := newTestAdapter(t, "gpt-4o", fake, m)

			_, err := a.Complete(context.Background(), "", history("hi"))
			if tt.wantErr {
				require.Error(t, err)
				assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("openai", "error")), 0)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, fake.calls.Load())
			assert.InDelta(t, float64(tt.wantCalls-1), testutil.ToFloat64(m.Retries.WithLabelValues("openai")), 0)
		})
	}
}

func TestAdapter_CompleteEmptyReply(t *testing.T) {
	fake := &fakeCompletions{reply: "   "}
	a := newTestAdapter(t, "gpt-4o", fake, nil)

	_, err := a.Complete(context.Background(), "", history("hi"))
	require.ErrorIs(t, err, domain.ErrEmptyReply)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestAdapter_CompleteCancelled(t *testing.T) {
	fake := &fakeCompletions{reply: "ok"}
	a := newTestAdapter(t, "gpt-4o", fake, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Complete(ctx, "", history("hi"))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), fake.calls.Load())
}

func TestAdapter_SetModel(t *testing.T) {
	a, err := NewAdapter("gpt-4o", Options{APIKeys: map[string]string{"OPENAI_API_KEY": "sk"}})
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOpenAI, a.Provider())

	err = a.SetModel("claude-3-5-haiku-latest")
	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	assert.Equal(t, "gpt-4o", a.Model(), "failed switch keeps the current model")

	require.ErrorIs(t, a.SetModel("gpt-42"), domain.ErrUnknownModel)

	require.NoError(t, a.SetModel("ollama/llama3.2"), "ollama needs no key")
	assert.Equal(t, "ollama/llama3.2", a.Model())
	assert.Equal(t, domain.ProviderOllama, a.Provider())
}

func TestNewAdapter_Errors(t *testing.T) {
	_, err := NewAdapter("gpt-4o", Options{})
	require.ErrorIs(t, err, domain.ErrMissingAPIKey)

	_, err = NewAdapter("nonsense", Options{})
	require.ErrorIs(t, err, domain.ErrUnknownModel)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, retry.Stop, classify(context.Canceled))
	assert.Equal(t, retry.Stop, classify(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.Equal(t, retry.Stop, classify(domain.ErrEmptyReply))
	assert.Equal(t, retry.Retry, classify(fmt.Errorf("dial tcp: connection refused")))
}
