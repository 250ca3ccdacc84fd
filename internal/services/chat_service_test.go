package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aihub/chatbot-go/internal/ai"
	"github.com/aihub/chatbot-go/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryHistory 内存会话存储
type memoryHistory struct {
	histories map[string][]ai.Message
	appendErr error
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{histories: make(map[string][]ai.Message)}
}

func (m *memoryHistory) NewSessionID() string { return "session-test" }

func (m *memoryHistory) History(_ context.Context, sessionID string) ([]ai.Message, error) {
	return m.histories[sessionID], nil
}

func (m *memoryHistory) Append(_ context.Context, sessionID string, messages ...ai.Message) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.histories[sessionID] = append(m.histories[sessionID], messages...)
	return nil
}

// stubCompleter 固定应答的回退
type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (c *stubCompleter) Complete(_ context.Context, _ []ai.Message, _ string) (string, error) {
	c.calls++
	return c.reply, c.err
}

type fixedKB struct{ kb *knowledge.KnowledgeBase }

func (f *fixedKB) Load() (*knowledge.KnowledgeBase, error) { return f.kb, nil }

func newChatEngine(t *testing.T, opts ...knowledge.Option) *knowledge.Engine {
	t.Helper()
	kb := &knowledge.KnowledgeBase{
		Entries: []knowledge.FAQEntry{
			{ID: "hours", Question: "clinic hours", Answer: "We are open 9am-6pm.", Keywords: []string{"hours", "open"}, Category: "info", Priority: 1},
			{ID: "addr", Question: "clinic address", Answer: "1 Main Street.", Keywords: []string{"address"}, Category: "info", Priority: 1},
		},
		QuickReplies: []knowledge.QuickReply{
			{ID: "qr1", Title: "Opening hours", Payload: "hours", Category: "info"},
		},
	}
	opts = append(opts, knowledge.WithLogger(zap.NewNop()))
	e := knowledge.NewEngine(&fixedKB{kb: kb}, knowledge.NewTokenizer(knowledge.LocaleLatin), opts...)
	require.NoError(t, e.Load())
	return e
}

func TestHandleMessageCannedAnswer(t *testing.T) {
	history := newMemoryHistory()
	fallback := &stubCompleter{reply: "generated"}
	svc := NewChatService(newChatEngine(t), history, fallback, nil, knowledge.LocaleLatin, zap.NewNop())

	reply, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "what are your hours?"})
	require.NoError(t, err)
	assert.Equal(t, SourceCanned, reply.Source)
	assert.Equal(t, "We are open 9am-6pm.", reply.Reply)
	assert.Equal(t, "info", reply.Category)
	// 知识库命中时不应触碰回退
	assert.Zero(t, fallback.calls)
	// 往返已写入会话历史
	assert.Len(t, history.histories["session-test"], 2)
}

func TestHandleMessageFallback(t *testing.T) {
	fallback := &stubCompleter{reply: "Here is a generated answer."}
	svc := NewChatService(newChatEngine(t), newMemoryHistory(), fallback, nil, knowledge.LocaleLatin, zap.NewNop())

	reply, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "tell me about parking"})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, reply.Source)
	assert.Equal(t, "Here is a generated answer.", reply.Reply)
	assert.Equal(t, 1, fallback.calls)
}

func TestHandleMessageFallbackErrorUsesDefault(t *testing.T) {
	fallback := &stubCompleter{err: errors.New("api down")}
	svc := NewChatService(newChatEngine(t), newMemoryHistory(), fallback, nil, knowledge.LocaleLatin, zap.NewNop())

	reply, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "tell me about parking"})
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, reply.Source)
	assert.NotEmpty(t, reply.Reply)
}

func TestHandleMessageNoFallbackConfigured(t *testing.T) {
	svc := NewChatService(newChatEngine(t), newMemoryHistory(), nil, nil, knowledge.LocaleLatin, zap.NewNop())

	reply, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "tell me about parking"})
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, reply.Source)
}

func TestHandleMessageAmbiguousDefaultListsCandidates(t *testing.T) {
	svc := NewChatService(newChatEngine(t, knowledge.WithThreshold(100)), newMemoryHistory(), nil, nil, knowledge.LocaleLatin, zap.NewNop())

	// "clinic"同时命中两条但低于阈值，兜底文案应给出编号消歧列表
	reply, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "clinic"})
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, reply.Source)
	assert.Contains(t, reply.Reply, "1. ")
	assert.NotEmpty(t, reply.Candidates)
}

func TestHandleMessageAssignsSessionID(t *testing.T) {
	svc := NewChatService(newChatEngine(t), newMemoryHistory(), nil, nil, knowledge.LocaleLatin, zap.NewNop())

	reply, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "hours"})
	require.NoError(t, err)
	assert.Equal(t, "session-test", reply.SessionID)

	reply, err = svc.HandleMessage(context.Background(), ChatRequest{SessionID: "existing", Message: "hours"})
	require.NoError(t, err)
	assert.Equal(t, "existing", reply.SessionID)
}

func TestHandleMessageEmpty(t *testing.T) {
	svc := NewChatService(newChatEngine(t), newMemoryHistory(), nil, nil, knowledge.LocaleLatin, zap.NewNop())

	_, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "   "})
	assert.Error(t, err)
}

func TestHandleMessageHistoryWriteFailureIsNotFatal(t *testing.T) {
	history := newMemoryHistory()
	history.appendErr = errors.New("redis down")
	svc := NewChatService(newChatEngine(t), history, nil, nil, knowledge.LocaleLatin, zap.NewNop())

	reply, err := svc.HandleMessage(context.Background(), ChatRequest{Message: "hours"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Reply)
}
