// Package correlation tags a context with the chat session and the turn it
// belongs to, and stamps both onto every log record written with it.
package correlation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

type tagsKey struct{}

type tags struct {
	session string
	turn    string
}

func from(ctx context.Context) tags {
	t, _ := ctx.Value(tagsKey{}).(tags)
	return t
}

// NewID generates an 8-character hex turn ID.
func NewID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithSession tags ctx with a chat session ID, keeping any turn ID.
func WithSession(ctx context.Context, session string) context.Context {
	t := from(ctx)
	t.session = session
	return context.WithValue(ctx, tagsKey{}, t)
}

// WithID tags ctx with a turn ID, keeping any session ID.
func WithID(ctx context.Context, id string) context.Context {
	t := from(ctx)
	t.turn = id
	return context.WithValue(ctx, tagsKey{}, t)
}

// ID returns the turn ID, or ("", false) when ctx has none.
func ID(ctx context.Context) (string, bool) {
	id := from(ctx).turn
	return id, id != ""
}

func Session(ctx context.Context) (string, bool) {
	s := from(ctx).session
	return s, s != ""
}

// Ensure returns ctx unchanged when it already carries a turn ID and
// otherwise attaches a fresh one. The ID in effect is returned alongside.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := ID(ctx); ok {
		return ctx, id
	}
	id := NewID()
	return WithID(ctx, id), id
}

// Handler adds "session_id" and "correlation_id" to records whose context
// carries them.
type Handler struct {
	inner slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	t := from(ctx)
	if t.session != "" {
		r.AddAttrs(slog.String("session_id", t.session))
	}
	if t.turn != "" {
		r.AddAttrs(slog.String("correlation_id", t.turn))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
