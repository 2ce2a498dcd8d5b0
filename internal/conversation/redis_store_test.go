package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStore_AppendAndHistory(t *testing.T) {
	mr, rdb := setupRedis(t)
	s := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "c1", userMsg("hello")))
	require.NoError(t, s.Append(ctx, "c1", domain.Message{Role: domain.RoleAssistant, Content: "hi!", Model: "gpt-4o-mini"}))

	got, err := s.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, userMsg("hello"), got[0])
	assert.Equal(t, "gpt-4o-mini", got[1].Model)

	raw, err := mr.List("conversation:c1")
	require.NoError(t, err)
	assert.Len(t, raw, 2)
	assert.Equal(t, time.Hour, mr.TTL("conversation:c1"))
}

func TestRedisStore_AppendRefreshesTTL(t *testing.T) {
	mr, rdb := setupRedis(t)
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "c1", userMsg("one")))
	mr.FastForward(50 * time.Second)
	require.NoError(t, s.Append(ctx, "c1", userMsg("two")))
	mr.FastForward(50 * time.Second)

	got, err := s.History(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	mr.FastForward(2 * time.Minute)
	_, err = s.History(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestRedisStore_Missing(t *testing.T) {
	_, rdb := setupRedis(t)
	s := NewRedisStore(rdb, time.Hour)

	_, err := s.History(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	mr, rdb := setupRedis(t)
	s := NewRedisStore(rdb, time.Hour)

	_, err := mr.Push("conversation:c1", "{not json")
	require.NoError(t, err)

	_, err = s.History(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode message 0 of conversation c1")
}

func TestRedisStore_Clear(t *testing.T) {
	mr, rdb := setupRedis(t)
	s := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "c1", userMsg("hello")))

	require.NoError(t, s.Clear(ctx, "c1"))

	assert.False(t, mr.Exists("conversation:c1"))
}

func TestRedisStore_ServerError(t *testing.T) {
	mr, rdb := setupRedis(t)
	s := NewRedisStore(rdb, time.Hour)
	mr.SetError("ERR simulated outage")

	err := s.Append(context.Background(), "c1", userMsg("hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated outage")

	_, err = s.History(context.Background(), "c1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConversationNotFound)
}
