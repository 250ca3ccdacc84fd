package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aihub/chatbot-go/internal/ai"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	historyPrefix      = "chat:history:"
	historyTTL         = 24 * time.Hour
	historyMaxMessages = 20 // 只保留最近的往返，控制回退调用的上下文长度
)

// SessionService 会话历史服务，基于Redis的TTL键值存储
type SessionService struct {
	redis *redis.Client
}

// NewSessionService 创建会话服务
func NewSessionService(rdb *redis.Client) *SessionService {
	return &SessionService{redis: rdb}
}

// NewSessionID 生成新会话ID
func (s *SessionService) NewSessionID() string {
	return uuid.NewString()
}

// History 获取会话历史，会话不存在或已过期返回空历史
func (s *SessionService) History(ctx context.Context, sessionID string) ([]ai.Message, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("Redis 未初始化")
	}

	raw, err := s.redis.Get(ctx, buildHistoryKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("获取会话历史失败: %w", err)
	}

	var history []ai.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("解析会话历史失败: %w", err)
	}
	return history, nil
}

// Append 追加消息并刷新TTL，超出上限时丢弃最旧的消息
func (s *SessionService) Append(ctx context.Context, sessionID string, messages ...ai.Message) error {
	if s.redis == nil {
		return fmt.Errorf("Redis 未初始化")
	}

	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}

	history = append(history, messages...)
	if len(history) > historyMaxMessages {
		history = history[len(history)-historyMaxMessages:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("序列化会话历史失败: %w", err)
	}
	if err := s.redis.Set(ctx, buildHistoryKey(sessionID), data, historyTTL).Err(); err != nil {
		return fmt.Errorf("保存会话历史失败: %w", err)
	}
	return nil
}

// Delete 删除会话历史
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	if s.redis == nil {
		return fmt.Errorf("Redis 未初始化")
	}
	return s.redis.Del(ctx, buildHistoryKey(sessionID)).Err()
}

func buildHistoryKey(sessionID string) string {
	return historyPrefix + sessionID
}
