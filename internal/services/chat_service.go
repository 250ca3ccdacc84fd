package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aihub/chatbot-go/internal/ai"
	"github.com/aihub/chatbot-go/internal/knowledge"
	"go.uber.org/zap"
)

// 回答来源
const (
	SourceCanned   = "canned"   // 知识库直接命中
	SourceFallback = "fallback" // 生成式回退
	SourceDefault  = "default"  // 回退不可用时的兜底文案
)

// HistoryStore 会话历史存储
type HistoryStore interface {
	NewSessionID() string
	History(ctx context.Context, sessionID string) ([]ai.Message, error)
	Append(ctx context.Context, sessionID string, messages ...ai.Message) error
}

// Completer 文本补全协作方（生成式回退）
type Completer interface {
	Complete(ctx context.Context, history []ai.Message, userMessage string) (string, error)
}

// ChatRequest 入站消息
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
}

// ChatReply 出站回答
type ChatReply struct {
	SessionID   string                  `json:"session_id"`
	Reply       string                  `json:"reply"`
	Source      string                  `json:"source"`
	Category    string                  `json:"category,omitempty"`
	Confidence  int                     `json:"confidence,omitempty"`
	Suggestions []knowledge.QuickReply   `json:"suggestions,omitempty"`
	Candidates  []knowledge.SearchResult `json:"candidates,omitempty"`
}

// ChatService 消息路由：知识库命中走固定答案，否则走生成式回退
type ChatService struct {
	engine   *knowledge.Engine
	sessions HistoryStore
	fallback Completer // 可为nil，此时兜底文案生效
	metrics  *MetricsService
	locale   knowledge.Locale
	logger   *zap.Logger
}

// NewChatService 创建消息路由服务
func NewChatService(engine *knowledge.Engine, sessions HistoryStore, fallback Completer, metrics *MetricsService, locale knowledge.Locale, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.L()
	}
	return &ChatService{
		engine:   engine,
		sessions: sessions,
		fallback: fallback,
		metrics:  metrics,
		locale:   locale,
		logger:   logger,
	}
}

// HandleMessage 处理一条用户消息
// 引擎决策永不出错；会话存储和回退调用失败只降级，不向调用方抛错
func (s *ChatService) HandleMessage(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("message is empty")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.sessions.NewSessionID()
	}

	start := time.Now()
	decision := s.engine.SmartAnswer(message, 0)
	if s.metrics != nil {
		s.metrics.ObserveSearch(time.Since(start))
	}

	reply := &ChatReply{
		SessionID:   sessionID,
		Suggestions: decision.Suggestions,
	}

	if decision.Kind == knowledge.DecisionFound {
		reply.Reply = decision.Answer
		reply.Source = SourceCanned
		reply.Category = decision.Category
		reply.Confidence = decision.Confidence
	} else {
		s.answerWithFallback(ctx, sessionID, message, decision, reply)
	}

	s.recordExchange(ctx, sessionID, message, reply.Reply)
	if s.metrics != nil {
		s.metrics.ObserveMessage(reply.Source)
	}
	return reply, nil
}

// answerWithFallback 知识库置信度不足时调用生成式回退
func (s *ChatService) answerWithFallback(ctx context.Context, sessionID, message string, decision knowledge.AnswerDecision, reply *ChatReply) {
	reply.Candidates = decision.Candidates

	if s.fallback != nil {
		history, err := s.sessions.History(ctx, sessionID)
		if err != nil {
			s.logger.Warn("读取会话历史失败，回退调用不带上下文", zap.Error(err))
			history = nil
		}

		text, err := s.fallback.Complete(ctx, history, message)
		if err == nil && strings.TrimSpace(text) != "" {
			reply.Reply = text
			reply.Source = SourceFallback
			return
		}
		if err != nil {
			s.logger.Warn("生成式回退失败，使用兜底文案", zap.Error(err))
		}
	}

	reply.Reply = s.renderDefault(decision)
	reply.Source = SourceDefault
}

// renderDefault 兜底文案：有候选时给出编号消歧列表
func (s *ChatService) renderDefault(decision knowledge.AnswerDecision) string {
	cjk := s.locale == knowledge.LocaleCJK

	if decision.Kind == knowledge.DecisionAmbiguous && len(decision.Candidates) > 0 {
		var b strings.Builder
		if cjk {
			b.WriteString("您可能想问：\n")
		} else {
			b.WriteString("Did you mean one of these?\n")
		}
		for i, c := range decision.Candidates {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c.Entry.Question)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	if cjk {
		return "抱歉，我暂时无法回答这个问题，您可以换个说法试试。"
	}
	return "Sorry, I don't have an answer for that yet. Could you rephrase your question?"
}

// recordExchange 把本轮往返写入会话历史（尽力而为）
func (s *ChatService) recordExchange(ctx context.Context, sessionID, userMessage, assistantReply string) {
	err := s.sessions.Append(ctx, sessionID,
		ai.Message{Role: "user", Content: userMessage},
		ai.Message{Role: "assistant", Content: assistantReply},
	)
	if err != nil {
		s.logger.Warn("写入会话历史失败", zap.String("session_id", sessionID), zap.Error(err))
	}
}
