package router

import (
	"github.com/aihub/chatbot-go/app/controllers"
	"github.com/aihub/chatbot-go/app/middleware"
	"github.com/aihub/chatbot-go/internal/config"
	"github.com/aihub/chatbot-go/internal/knowledge"
	"github.com/aihub/chatbot-go/internal/services"
	"github.com/beego/beego/v2/server/web"
)

// Deps 路由依赖，由bootstrap装配
type Deps struct {
	Engine   *knowledge.Engine
	Chat     *services.ChatService
	Metrics  *services.MetricsService
	Security *middleware.SecurityMiddleware
	Webhook  *config.WebhookConfig
}

// Init registers all routes. Must be called after bootstrap.
func Init(deps Deps) {
	web.InsertFilter("/*", web.BeforeRouter, middleware.CORSMiddleware)
	web.InsertFilter("/api/admin/*", web.BeforeRouter, deps.Security.AdminRequired())

	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", controllers.NewHealthController(deps.Engine), "get:Health")

	// 聊天入口（网页挂件）
	web.Router("/api/chat/message", controllers.NewChatController(deps.Chat), "post:Message")

	// 知识库检索
	searchController := controllers.NewSearchController(deps.Engine)
	web.Router("/api/kb/search", searchController, "get:Search")
	web.Router("/api/kb/answer", searchController, "post:Answer")

	// 管理接口（JWT认证）
	adminController := controllers.NewAdminController(deps.Engine, deps.Metrics)
	web.Router("/api/admin/reload", adminController, "post:Reload")
	web.Router("/api/admin/stats", adminController, "get:Stats")

	// 消息平台Webhook
	web.Router("/webhook/messaging", controllers.NewWebhookController(deps.Chat, deps.Webhook), "post:Receive")

	// Prometheus指标
	web.Router("/metrics", controllers.NewMetricsController(deps.Metrics), "get:Metrics")
}
