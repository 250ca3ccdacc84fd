package controllers

import (
	apperrors "github.com/aihub/chatbot-go/internal/errors"
	"github.com/aihub/chatbot-go/internal/knowledge"
	"github.com/aihub/chatbot-go/internal/logger"
	"github.com/aihub/chatbot-go/internal/services"
	"go.uber.org/zap"
)

// AdminController 管理接口：重载与统计
// 认证由SecurityMiddleware过滤器完成
type AdminController struct {
	BaseController
	engine  *knowledge.Engine
	metrics *services.MetricsService
}

// NewAdminController 创建管理控制器
func NewAdminController(engine *knowledge.Engine, metrics *services.MetricsService) *AdminController {
	return &AdminController{engine: engine, metrics: metrics}
}

// Reload 触发知识库重载
// 失败时上一代数据继续服务，只向管理端上报错误
func (c *AdminController) Reload() {
	err := c.engine.Reload()
	if c.metrics != nil {
		c.metrics.ObserveReload(err == nil)
		c.metrics.SetKnowledgeStats(c.engine.Stats())
	}
	if err != nil {
		logger.Warn("管理端触发的重载失败", zap.Error(err))
		c.JSONAppError(apperrors.New(apperrors.ErrCodeKnowledgeReload, "重载失败，沿用当前知识库", 500).WithCause(err))
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"reloaded": true,
		"stats":    c.engine.Stats(),
	})
}

// Stats 引擎统计信息
func (c *AdminController) Stats() {
	c.JSONSuccess(map[string]interface{}{
		"stats":     c.engine.Stats(),
		"loaded_at": c.engine.LoadedAt(),
	})
}
