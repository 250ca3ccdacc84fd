package controllers

import (
	"github.com/aihub/chatbot-go/internal/services"
)

// MetricsController Prometheus指标暴露
type MetricsController struct {
	BaseController
	metrics *services.MetricsService
}

// NewMetricsController 创建指标控制器
func NewMetricsController(metrics *services.MetricsService) *MetricsController {
	return &MetricsController{metrics: metrics}
}

// Metrics 输出Prometheus文本格式指标
func (c *MetricsController) Metrics() {
	c.metrics.Handler().ServeHTTP(c.Ctx.ResponseWriter, c.Ctx.Request)
}
