package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthdai/concierge/internal/agent/model"
	"github.com/cloudwego/eino/schema"
)

// memoryRepository is an in-memory ConversationRepository for tests.
type memoryRepository struct {
	messages map[string][]*schema.Message
	addErr   error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{messages: map[string][]*schema.Message{}}
}

func (m *memoryRepository) AddMessage(_ context.Context, conversationID string, msg *schema.Message) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.messages[conversationID] = append(m.messages[conversationID], msg)
	return nil
}

func (m *memoryRepository) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	return &model.ConversationHistory{
		ConversationID: conversationID,
		Messages:       m.messages[conversationID],
	}, nil
}

func (m *memoryRepository) ClearHistory(_ context.Context, conversationID string) error {
	delete(m.messages, conversationID)
	return nil
}

func (m *memoryRepository) GetMessageCount(_ context.Context, conversationID string) (int, error) {
	return len(m.messages[conversationID]), nil
}

func newTestManager(maxTurns int) (*MessagesManager, *memoryRepository) {
	repo := newMemoryRepository()
	cfg := model.ConversationConfig{}
	cfg.Context.MaxTurns = maxTurns
	return NewMessagesManager(repo, cfg), repo
}

func TestSaveUserMessage(t *testing.T) {
	cm, repo := newTestManager(20)

	require.NoError(t, cm.SaveUserMessage(context.Background(), "conv-1", "父への誕生日プレゼントを探しています"))

	require.Len(t, repo.messages["conv-1"], 1)
	assert.Equal(t, schema.User, repo.messages["conv-1"][0].Role)
}

func TestBuildResponseContextPrependsSystemPrompt(t *testing.T) {
	cm, repo := newTestManager(20)
	ctx := context.Background()

	repo.AddMessage(ctx, "conv-1", schema.UserMessage("こんにちは"))
	repo.AddMessage(ctx, "conv-1", schema.AssistantMessage("こんにちは！どんな贈り物をお探しですか？", nil))

	messages, err := cm.BuildResponseContext(ctx, "conv-1", "you are a gift concierge")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, schema.System, messages[0].Role)
	assert.Equal(t, "you are a gift concierge", messages[0].Content)
	assert.Equal(t, schema.User, messages[1].Role)
	assert.Equal(t, schema.Assistant, messages[2].Role)
}

func TestBuildResponseContextSkipsEmptyMessages(t *testing.T) {
	cm, repo := newTestManager(20)
	ctx := context.Background()

	repo.AddMessage(ctx, "conv-1", schema.UserMessage("hello"))
	repo.AddMessage(ctx, "conv-1", schema.AssistantMessage("", nil))
	repo.messages["conv-1"] = append(repo.messages["conv-1"], nil)

	messages, err := cm.BuildResponseContext(ctx, "conv-1", "system")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[1].Content)
}

func TestBuildResponseContextTrimsToMaxTurns(t *testing.T) {
	cm, repo := newTestManager(4)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		repo.AddMessage(ctx, "conv-1", schema.UserMessage(fmt.Sprintf("message %d", i)))
	}

	messages, err := cm.BuildResponseContext(ctx, "conv-1", "system")
	require.NoError(t, err)
	require.Len(t, messages, 5)
	// the oldest messages are dropped, keeping the most recent four
	assert.Equal(t, "message 6", messages[1].Content)
	assert.Equal(t, "message 9", messages[4].Content)
}

func TestSaveResponse(t *testing.T) {
	cm, repo := newTestManager(20)

	require.NoError(t, cm.SaveResponse(context.Background(), "conv-1", "おすすめはこちらです"))

	require.Len(t, repo.messages["conv-1"], 1)
	assert.Equal(t, schema.Assistant, repo.messages["conv-1"][0].Role)
	assert.Equal(t, "おすすめはこちらです", repo.messages["conv-1"][0].Content)
}

func TestTrimTail(t *testing.T) {
	build := func(n int) []*schema.Message {
		out := make([]*schema.Message, n)
		for i := range out {
			out[i] = schema.UserMessage(fmt.Sprintf("m%d", i))
		}
		return out
	}

	assert.Len(t, trimTail(build(3), 5), 3)
	assert.Len(t, trimTail(build(5), 5), 5)

	trimmed := trimTail(build(8), 5)
	require.Len(t, trimmed, 5)
	assert.Equal(t, "m3", trimmed[0].Content)
	assert.Equal(t, "m7", trimmed[4].Content)

	assert.Len(t, trimTail(build(8), 0), 8)
	assert.Empty(t, trimTail(nil, 5))
}
