package controllers

import (
	"github.com/aihub/chatbot-go/internal/knowledge"
)

// RootController 根路径
type RootController struct {
	BaseController
}

// Index 服务标识
func (c *RootController) Index() {
	c.JSONSuccess(map[string]interface{}{
		"service": "chatbot",
		"status":  "running",
	})
}

// HealthController 健康检查
type HealthController struct {
	BaseController
	engine *knowledge.Engine
}

// NewHealthController 创建健康检查控制器
func NewHealthController(engine *knowledge.Engine) *HealthController {
	return &HealthController{engine: engine}
}

// Health 健康检查：附带知识库规模，便于监控方判断引擎是否处于退化状态
func (c *HealthController) Health() {
	stats := c.engine.Stats()
	c.JSONSuccess(map[string]interface{}{
		"status":    "healthy",
		"knowledge": stats,
		"loaded_at": c.engine.LoadedAt(),
	})
}
