package controllers

import (
	"encoding/json"
	"strings"

	apperrors "github.com/aihub/chatbot-go/internal/errors"
	"github.com/aihub/chatbot-go/internal/logger"
	"github.com/aihub/chatbot-go/internal/services"
	"go.uber.org/zap"
)

// ChatController 网页挂件的聊天入口
type ChatController struct {
	BaseController
	chatService *services.ChatService
}

// NewChatController 创建聊天控制器
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Message 处理一条聊天消息
func (c *ChatController) Message() {
	var req services.ChatRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONAppError(apperrors.NewBadRequest("请求体格式错误"))
		return
	}
	// 纯空白消息同样按缺参处理，不能漏到下游变成500
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		c.JSONAppError(apperrors.New(apperrors.ErrCodeMissingRequired, "message不能为空", 400))
		return
	}

	reply, err := c.chatService.HandleMessage(c.Ctx.Request.Context(), req)
	if err != nil {
		logger.Error("消息处理失败", zap.Error(err))
		c.JSONAppError(apperrors.NewInternalError("消息处理失败"))
		return
	}

	c.JSONSuccess(reply)
}
