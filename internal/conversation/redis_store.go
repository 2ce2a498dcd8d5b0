package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

// RedisStore keeps each conversation as a Redis list of JSON-encoded
// messages. Every append refreshes the key's TTL.
type RedisStore struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

var _ domain.ConversationStore = (*RedisStore)(nil)

func NewRedisStore(rdb goredis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Append(ctx context.Context, conversationID string, msg domain.Message) error {
	encoded, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	key := conversationKey(conversationID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.RPush(ctx, key, encoded)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append to conversation %s: %w", conversationID, err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, conversationID string) ([]domain.Message, error) {
	raw, err := s.rdb.LRange(ctx, conversationKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation %s: %w", conversationID, err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrConversationNotFound
	}

	messages := make([]domain.Message, 0, len(raw))
	for i, item := range raw {
		var msg domain.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode message %d of conversation %s: %w", i, conversationID, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.rdb.Del(ctx, conversationKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to clear conversation %s: %w", conversationID, err)
	}
	return nil
}

func conversationKey(conversationID string) string {
	return "conversation:" + conversationID
}
