package controllers

import (
	"encoding/json"

	"github.com/aihub/chatbot-go/internal/config"
	apperrors "github.com/aihub/chatbot-go/internal/errors"
	"github.com/aihub/chatbot-go/internal/logger"
	"github.com/aihub/chatbot-go/internal/services"
	"github.com/aihub/chatbot-go/internal/webhook"
	"go.uber.org/zap"
)

// webhookEvent 消息平台回调事件
type webhookEvent struct {
	SenderID string `json:"sender_id"`
	Message  struct {
		Text string `json:"text"`
	} `json:"message"`
}

// WebhookController 消息平台Webhook入口
type WebhookController struct {
	BaseController
	chatService *services.ChatService
	cfg         *config.WebhookConfig
}

// NewWebhookController 创建Webhook控制器
func NewWebhookController(chatService *services.ChatService, cfg *config.WebhookConfig) *WebhookController {
	return &WebhookController{chatService: chatService, cfg: cfg}
}

// Receive 接收平台回调：先验签再路由到聊天服务
func (c *WebhookController) Receive() {
	body := c.Ctx.Input.RequestBody

	// 未配置密钥时跳过验签（本地开发）
	if c.cfg.Secret != "" {
		header := c.Ctx.Input.Header(c.cfg.SignatureHeader)
		if err := webhook.Verify(c.cfg.Secret, body, header); err != nil {
			logger.Warn("Webhook验签失败", zap.Error(err))
			c.JSONAppError(apperrors.New(apperrors.ErrCodeBadSignature, "签名校验失败", 401))
			return
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSONAppError(apperrors.NewBadRequest("事件格式错误"))
		return
	}
	if event.SenderID == "" || event.Message.Text == "" {
		c.JSONAppError(apperrors.New(apperrors.ErrCodeMissingRequired, "事件缺少必要字段", 400))
		return
	}

	// 平台侧用户ID直接作为会话ID，保证多轮上下文连续
	reply, err := c.chatService.HandleMessage(c.Ctx.Request.Context(), services.ChatRequest{
		SessionID: "wh:" + event.SenderID,
		Message:   event.Message.Text,
	})
	if err != nil {
		logger.Error("Webhook消息处理失败", zap.Error(err))
		c.JSONAppError(apperrors.NewInternalError("消息处理失败"))
		return
	}

	c.JSONSuccess(reply)
}
