package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/aihub/chatbot-go/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

// Message 对话消息
type Message struct {
	Role    string `json:"role"` // user | assistant | system
	Content string `json:"content"`
}

// Client 生成式回退客户端：知识库没有足够置信度的答案时兜底
type Client struct {
	client       *openai.Client
	model        string
	maxTokens    int
	temperature  float32
	systemPrompt string
}

// NewClient 创建回退客户端，未配置API Key时返回nil（回退不可用）
func NewClient(cfg *config.AIConfig) *Client {
	if cfg == nil || !cfg.Enabled || cfg.OpenAIAPIKey == "" {
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  float32(cfg.Temperature),
		systemPrompt: cfg.SystemPrompt,
	}
}

// Complete 带会话历史的文本补全
func (c *Client) Complete(ctx context.Context, history []Message, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", fmt.Errorf("message is empty")
	}
	if c == nil || c.client == nil {
		return "", fmt.Errorf("ai client not initialized")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if c.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.systemPrompt,
		})
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
