package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEmojis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii untouched", "hello there", "hello there"},
		{"single emoji", "so sad \U0001f622", "so sad cry"},
		{"adjacent emoji", "\U0001f600\U0001f622", "grinning cry"},
		{"multi word short code", "ok \U0001f44d!", "ok +1 !"},
		{"accented text kept", "café", "café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandEmojis(tt.in))
		})
	}
}

func TestShortCodeWords(t *testing.T) {
	assert.Equal(t, "crying face", shortCodeWords(":crying_face:"))
	assert.Equal(t, "cry", shortCodeWords(":cry:"))
}

func TestVader_Polarity(t *testing.T) {
	v := New(Options{})
	ctx := context.Background()

	pos, err := v.Analyze(ctx, "I love this, it is wonderful and amazing!")
	require.NoError(t, err)
	assert.Greater(t, pos.Compound, 0.5)
	assert.Greater(t, pos.Positive, pos.Negative)

	neg, err := v.Analyze(ctx, "This is terrible and I hate it.")
	require.NoError(t, err)
	assert.Less(t, neg.Compound, -0.5)
	assert.Greater(t, neg.Negative, neg.Positive)

	for _, p := range []float64{pos.Compound, neg.Compound} {
		assert.GreaterOrEqual(t, p, -1.0)
		assert.LessOrEqual(t, p, 1.0)
	}
	assert.InDelta(t, 1.0, pos.Positive+pos.Negative+pos.Neutral, 0.01)
}

func TestVader_EmojiExpansion(t *testing.T) {
	got, err := New(Options{ExpandEmojis: true}).Analyze(context.Background(), "\U0001f622")
	require.NoError(t, err)
	assert.Less(t, got.Compound, 0.0)
}

func TestVader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Analyze(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
