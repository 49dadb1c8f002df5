package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisConversationRepository) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return s, NewRedisConversationRepository(rdb, ttl)
}

func TestAddMessageAndLoadHistory(t *testing.T) {
	_, r := newTestRepository(t, 0)
	ctx := context.Background()

	require.NoError(t, r.AddMessage(ctx, "conv-1", schema.UserMessage("誕生日プレゼントを探しています")))
	require.NoError(t, r.AddMessage(ctx, "conv-1", schema.AssistantMessage("ご予算を教えてください。", nil)))

	history, err := r.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", history.ConversationID)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[0].Role)
	assert.Equal(t, "誕生日プレゼントを探しています", history.Messages[0].Content)
	assert.Equal(t, schema.Assistant, history.Messages[1].Role)
}

func TestLoadHistoryEmptyConversation(t *testing.T) {
	_, r := newTestRepository(t, 0)

	history, err := r.LoadHistory(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}

func TestAddMessageSetsTTL(t *testing.T) {
	s, r := newTestRepository(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, r.AddMessage(ctx, "conv-ttl", schema.UserMessage("hi")))
	assert.Equal(t, 30*time.Minute, s.TTL("conversation:conv-ttl:messages"))
}

func TestClearHistory(t *testing.T) {
	_, r := newTestRepository(t, 0)
	ctx := context.Background()

	require.NoError(t, r.AddMessage(ctx, "conv-2", schema.UserMessage("hello")))
	require.NoError(t, r.ClearHistory(ctx, "conv-2"))

	n, err := r.GetMessageCount(ctx, "conv-2")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetMessageCount(t *testing.T) {
	_, r := newTestRepository(t, 0)
	ctx := context.Background()

	n, err := r.GetMessageCount(ctx, "conv-3")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.AddMessage(ctx, "conv-3", schema.UserMessage("one")))
	require.NoError(t, r.AddMessage(ctx, "conv-3", schema.UserMessage("two")))

	n, err = r.GetMessageCount(ctx, "conv-3")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadHistoryCorruptPayload(t *testing.T) {
	s, r := newTestRepository(t, 0)

	s.Lpush("conversation:conv-bad:messages", "not json")
	_, err := r.LoadHistory(context.Background(), "conv-bad")
	require.Error(t, err)
}
