// Package chat runs conversation turns: it feeds each user message through
// the mood engine, keeps the transcript, and asks the model for a reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/KagemniKarimu/nyota/internal/domain"
	"github.com/KagemniKarimu/nyota/internal/metrics"
	"github.com/KagemniKarimu/nyota/internal/platform/correlation"
	"github.com/KagemniKarimu/nyota/internal/sentiment"
)

var ErrEmptyMessage = errors.New("message is empty")

// Provider is the model backend of a chat. SetModel switches models mid-session.
type Provider interface {
	domain.ChatProvider
	SetModel(model string) error
}

// Turn is the outcome of one Send.
type Turn struct {
	Reply    string
	Mood     domain.Mood
	Feelings domain.SentimentState
}

// Service is the single place where the mood session, the transcript store
// and the model provider meet. One Service serves one chat session.
type Service struct {
	session  *sentiment.Session
	store    domain.ConversationStore
	provider Provider
	system   string
	metrics  *metrics.SentimentMetrics
	clock    clockwork.Clock

	mu       sync.Mutex
	lastMood domain.Mood
}

// NewService wires a chat session. m may be nil.
func NewService(session *sentiment.Session, store domain.ConversationStore, provider Provider, systemPrompt string, m *metrics.SentimentMetrics, clock clockwork.Clock) *Service {
	return &Service{
		session:  session,
		store:    store,
		provider: provider,
		system:   systemPrompt,
		metrics:  m,
		clock:    clock,
		lastMood: session.Mood(),
	}
}

// ConversationID is the key of this session's transcript in the store.
func (s *Service) ConversationID() string {
	return s.session.ID.String()
}

// Send runs one turn. A failed sentiment analysis is logged and the turn
// continues; so does a transcript store failure. Only a failed completion
// fails the turn, and even then the returned Turn carries the updated mood.
func (s *Service) Send(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}
	convID := s.ConversationID()
	ctx, _ = correlation.Ensure(correlation.WithSession(ctx, convID))

	s.analyze(ctx, text)
	feelings := s.session.Feelings()
	turn := Turn{Mood: sentiment.MoodOf(feelings), Feelings: feelings}
	s.recordMood(ctx, turn)

	userMsg := domain.Message{Role: domain.RoleUser, Content: text, CreatedAt: s.clock.Now()}
	appended := true
	if err := s.store.Append(ctx, convID, userMsg); err != nil {
		slog.WarnContext(ctx, "Failed to store user message", "conversation", convID, "error", err)
		appended = false
	}

	history, err := s.store.History(ctx, convID)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Failed to load history, sending message alone", "conversation", convID, "error", err)
		history = []domain.Message{userMsg}
	case !appended:
		history = append(history, userMsg)
	}

	model := s.provider.Model()
	reply, err := s.provider.Complete(ctx, s.system, history)
	if err != nil {
		return turn, fmt.Errorf("failed to get reply: %w", err)
	}
	turn.Reply = reply

	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: reply, Model: model, CreatedAt: s.clock.Now()}
	if err := s.store.Append(ctx, convID, assistantMsg); err != nil {
		slog.WarnContext(ctx, "Failed to store reply", "conversation", convID, "error", err)
	}

	slog.DebugContext(ctx, "Turn complete", "model", model, "mood", turn.Mood.String(), "history_len", len(history))
	return turn, nil
}

func (s *Service) analyze(ctx context.Context, text string) {
	err := s.session.Process(ctx, text)
	result := "success"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.DebugContext(ctx, "Sentiment analysis cancelled", "error", err)
		result = "cancelled"
	case err != nil:
		slog.WarnContext(ctx, "Sentiment analysis failed, mood unchanged", "error", err)
		result = "error"
	}
	if s.metrics == nil {
		return
	}
	s.metrics.MessagesProcessed.WithLabelValues(result).Inc()
}

func (s *Service) recordMood(ctx context.Context, turn Turn) {
	s.mu.Lock()
	changed := turn.Mood != s.lastMood
	previous := s.lastMood
	s.lastMood = turn.Mood
	s.mu.Unlock()

	if changed {
		slog.InfoContext(ctx, "Mood changed", "from", previous.String(), "to", turn.Mood.String())
	}
	if s.metrics == nil {
		return
	}
	s.metrics.CompoundAffect.Set(turn.Feelings.CompoundAffect)
	s.metrics.InteractionCount.Set(float64(turn.Feelings.InteractionCount))
	if changed && turn.Mood.State != previous.State {
		s.metrics.MoodTransitions.WithLabelValues(turn.Mood.State.String()).Inc()
	}
}

func (s *Service) Mood() domain.Mood {
	return s.session.Mood()
}

func (s *Service) Feelings() domain.SentimentState {
	return s.session.Feelings()
}

func (s *Service) Report() sentiment.Report {
	return s.session.Report()
}

// Forget resets the mood and drops the transcript.
func (s *Service) Forget(ctx context.Context) error {
	s.session.Forget()

	s.mu.Lock()
	s.lastMood = s.session.Mood()
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.CompoundAffect.Set(domain.DefaultAffect)
		s.metrics.InteractionCount.Set(0)
	}

	if err := s.store.Clear(ctx, s.ConversationID()); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}

// History returns the transcript so far; a fresh session has none.
func (s *Service) History(ctx context.Context) ([]domain.Message, error) {
	history, err := s.store.History(ctx, s.ConversationID())
	if errors.Is(err, domain.ErrConversationNotFound) {
		return nil, nil
	}
	return history, err
}

func (s *Service) SetModel(model string) error {
	if err := s.provider.SetModel(model); err != nil {
		return err
	}
	slog.Info("Model switched", "model", model, "provider", s.provider.Provider())
	return nil
}

func (s *Service) Model() string {
	return s.provider.Model()
}
