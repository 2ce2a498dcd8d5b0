package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KagemniKarimu/nyota/internal/domain"
	"github.com/KagemniKarimu/nyota/internal/metrics"
)

const (
	layerMemory = "memory"
	layerRedis  = "redis"

	sharedReadTimeout = 5 * time.Second
)

// HybridStore layers a MemoryStore (L1) over a shared store such as Redis
// (L2). Writes go to both layers. Reads are served from L1 when possible and
// otherwise read through L2, backfilling L1. When L2 fails the store keeps
// working from memory alone, queueing the messages L2 missed and replaying
// them once it answers again.
type HybridStore struct {
	mem     *MemoryStore
	shared  domain.ConversationStore
	metrics *metrics.CacheMetrics
	group   singleflight.Group

	// mu serializes the replay queue with the shared reads and writes that
	// depend on it.
	mu      sync.Mutex
	pending map[string][]domain.Message

	// partial marks L1 entries built without the shared history. They are
	// only served while L2 is unreachable.
	partialMu sync.Mutex
	partial   map[string]bool
}

var _ domain.ConversationStore = (*HybridStore)(nil)

// NewHybridStore combines the two layers. m may be nil.
func NewHybridStore(mem *MemoryStore, shared domain.ConversationStore, m *metrics.CacheMetrics) *HybridStore {
	return &HybridStore{
		mem:     mem,
		shared:  shared,
		metrics: m,
		pending: make(map[string][]domain.Message),
		partial: make(map[string]bool),
	}
}

func (s *HybridStore) Append(ctx context.Context, conversationID string, msg domain.Message) error {
	_, err := s.flush(ctx, conversationID)
	if err == nil {
		err = s.shared.Append(ctx, conversationID, msg)
	}
	if err != nil {
		slog.WarnContext(ctx, "Shared conversation store append failed, keeping message in memory only",
			"conversation_id", conversationID, "error", err)
		s.degraded()
		return s.appendLocal(ctx, conversationID, msg)
	}

	// A conversation not held in memory is reloaded whole on the next read,
	// so appending to an empty L1 entry would only shadow the shared history.
	if s.mem.has(conversationID) {
		return s.mem.Append(ctx, conversationID, msg)
	}
	return nil
}

// appendLocal keeps msg in L1 and queues it for L2. An L1 miss is backfilled
// from L2 first; when L2 cannot be read the entry is marked partial.
func (s *HybridStore) appendLocal(ctx context.Context, conversationID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mem.has(conversationID) {
		base := cloneMessages(s.pending[conversationID])
		history, err := s.shared.History(ctx, conversationID)
		switch {
		case err == nil:
			base = append(history, base...)
		case errors.Is(err, domain.ErrConversationNotFound):
		default:
			s.setPartial(conversationID, true)
		}
		s.mem.put(conversationID, base)
	}
	s.pending[conversationID] = append(s.pending[conversationID], msg)
	return s.mem.Append(ctx, conversationID, msg)
}

// flush replays queued messages to L2 in order. It returns the messages that
// were queued when it started, whether or not all of them were delivered.
func (s *HybridStore) flush(ctx context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx, conversationID)
}

func (s *HybridStore) flushLocked(ctx context.Context, conversationID string) ([]domain.Message, error) {
	queued := s.pending[conversationID]
	for i, msg := range queued {
		if err := s.shared.Append(ctx, conversationID, msg); err != nil {
			s.pending[conversationID] = queued[i:]
			return queued, fmt.Errorf("failed to replay queued messages: %w", err)
		}
	}
	delete(s.pending, conversationID)
	return queued, nil
}

func (s *HybridStore) isPartial(conversationID string) bool {
	s.partialMu.Lock()
	defer s.partialMu.Unlock()
	return s.partial[conversationID]
}

func (s *HybridStore) setPartial(conversationID string, partial bool) {
	s.partialMu.Lock()
	defer s.partialMu.Unlock()
	if partial {
		s.partial[conversationID] = true
	} else {
		delete(s.partial, conversationID)
	}
}

func (s *HybridStore) History(ctx context.Context, conversationID string) ([]domain.Message, error) {
	partial := s.isPartial(conversationID)
	if !partial {
		if messages, err := s.mem.History(ctx, conversationID); err == nil {
			s.hit(layerMemory)
			return messages, nil
		}
	}
	s.miss(layerMemory)

	v, err, _ := s.group.Do(conversationID, func() (interface{}, error) {
		// Collapsed readers share this call, so one caller's cancellation
		// must not fail the others.
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		return s.readThrough(readCtx, conversationID)
	})
	switch {
	case err == nil:
		s.hit(layerRedis)
		return cloneMessages(v.([]domain.Message)), nil
	case errors.Is(err, domain.ErrConversationNotFound):
		s.miss(layerRedis)
		return nil, err
	}

	slog.WarnContext(ctx, "Shared conversation store read failed", "conversation_id", conversationID, "error", err)
	s.degraded()
	if partial {
		if messages, memErr := s.mem.History(ctx, conversationID); memErr == nil {
			slog.WarnContext(ctx, "Serving partial conversation from memory", "conversation_id", conversationID)
			return messages, nil
		}
	}
	return nil, fmt.Errorf("conversation %s unavailable: %w", conversationID, err)
}

// readThrough loads the shared history, replays anything queued while L2 was
// failing, and installs the merged transcript as a complete L1 entry.
func (s *HybridStore) readThrough(ctx context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.shared.History(ctx, conversationID)
	if err != nil && !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, err
	}
	queued, flushErr := s.flushLocked(ctx, conversationID)
	if flushErr != nil {
		slog.WarnContext(ctx, "Queued messages still not in shared store", "conversation_id", conversationID, "error", flushErr)
	}
	messages = append(messages, queued...)
	if len(messages) == 0 && err != nil {
		return nil, err
	}

	s.setPartial(conversationID, false)
	s.mem.put(conversationID, messages)
	return messages, nil
}

func (s *HybridStore) Clear(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	delete(s.pending, conversationID)
	s.mu.Unlock()
	s.setPartial(conversationID, false)

	if err := s.mem.Clear(ctx, conversationID); err != nil {
		return err
	}
	if err := s.shared.Clear(ctx, conversationID); err != nil {
		s.degraded()
		return err
	}
	return nil
}

func (s *HybridStore) hit(layer string) {
	if s.metrics != nil {
		s.metrics.Hits.WithLabelValues(layer).Inc()
	}
}

func (s *HybridStore) miss(layer string) {
	if s.metrics != nil {
		s.metrics.Misses.WithLabelValues(layer).Inc()
	}
}

func (s *HybridStore) degraded() {
	if s.metrics != nil {
		s.metrics.Degraded.Inc()
	}
}
