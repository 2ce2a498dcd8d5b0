package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

// MemoryStore keeps the most recently used conversations in process memory.
// Conversations idle for longer than the idle TTL are treated as gone.
type MemoryStore struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *memoryEntry]
	idleTTL time.Duration
	clock   clockwork.Clock
}

type memoryEntry struct {
	messages  []domain.Message
	touchedAt time.Time
}

var _ domain.ConversationStore = (*MemoryStore)(nil)

// NewMemoryStore holds up to capacity conversations. An idleTTL of zero
// disables expiry.
func NewMemoryStore(capacity int, idleTTL time.Duration, clock clockwork.Clock) (*MemoryStore, error) {
	entries, err := lru.New[string, *memoryEntry](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation LRU: %w", err)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{entries: entries, idleTTL: idleTTL, clock: clock}, nil
}

func (s *MemoryStore) Append(_ context.Context, conversationID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(conversationID)
	if !ok {
		entry = &memoryEntry{}
		s.entries.Add(conversationID, entry)
	}
	entry.messages = append(entry.messages, msg)
	entry.touchedAt = s.clock.Now()
	return nil
}

func (s *MemoryStore) History(_ context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(conversationID)
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	entry.touchedAt = s.clock.Now()
	return cloneMessages(entry.messages), nil
}

func (s *MemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Remove(conversationID)
	return nil
}

// put replaces a conversation wholesale, used to backfill from Redis.
func (s *MemoryStore) put(conversationID string, messages []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Add(conversationID, &memoryEntry{
		messages:  cloneMessages(messages),
		touchedAt: s.clock.Now(),
	})
}

// has reports whether a live conversation is held, without touching it.
func (s *MemoryStore) has(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries.Peek(conversationID)
	return ok && !s.expired(entry)
}

// live returns the entry for conversationID, dropping it if it has expired.
// Callers hold s.mu.
func (s *MemoryStore) live(conversationID string) (*memoryEntry, bool) {
	entry, ok := s.entries.Get(conversationID)
	if !ok {
		return nil, false
	}
	if s.expired(entry) {
		s.entries.Remove(conversationID)
		return nil, false
	}
	return entry, true
}

func (s *MemoryStore) expired(entry *memoryEntry) bool {
	return s.idleTTL > 0 && s.clock.Since(entry.touchedAt) > s.idleTTL
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

// EvictExpired drops every idle conversation and returns how many went.
func (s *MemoryStore) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for _, id := range s.entries.Keys() {
		entry, ok := s.entries.Peek(id)
		if ok && s.expired(entry) {
			s.entries.Remove(id)
			evicted++
		}
	}
	return evicted
}

// StartEvictionTimer runs a periodic goroutine that evicts idle conversations.
// onEvict, if non-nil, is told how many went on each sweep that evicted any.
// Returns a stop function that should be deferred.
func (s *MemoryStore) StartEvictionTimer(interval time.Duration, onEvict func(int)) func() {
	ticker := s.clock.NewTicker(interval)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ticker.Chan():
				evicted := s.EvictExpired()
				if evicted > 0 {
					slog.Debug("Evicted idle conversations", "count", evicted, "remaining", s.Len())
					if onEvict != nil {
						onEvict(evicted)
					}
				}

			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-stopped
		})
	}
}

func cloneMessages(in []domain.Message) []domain.Message {
	if in == nil {
		return []domain.Message{}
	}
	out := make([]domain.Message, len(in))
	copy(out, in)
	return out
}
