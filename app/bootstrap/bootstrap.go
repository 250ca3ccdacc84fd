package bootstrap

import (
	"log"
	"time"

	"github.com/aihub/chatbot-go/app/middleware"
	"github.com/aihub/chatbot-go/internal/ai"
	"github.com/aihub/chatbot-go/internal/auth"
	"github.com/aihub/chatbot-go/internal/config"
	"github.com/aihub/chatbot-go/internal/database"
	"github.com/aihub/chatbot-go/internal/knowledge"
	"github.com/aihub/chatbot-go/internal/logger"
	"github.com/aihub/chatbot-go/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	Engine         *knowledge.Engine
	ChatService    *services.ChatService
	MetricsService *services.MetricsService
	Security       *middleware.SecurityMiddleware

	cleanupTasks []func() error
}

// Init bootstraps configuration, logger, Redis, the knowledge engine and the
// chat services required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	app := &App{}

	// Redis可选：会话历史不可用只降级，不阻塞启动
	if _, err := database.InitRedis(); err != nil {
		logger.Warn("Redis初始化失败，会话历史不可用", zap.Error(err))
	} else {
		app.cleanupTasks = append(app.cleanupTasks, database.CloseRedis)
	}

	app.MetricsService = services.NewMetricsService(nil)

	// 知识库引擎
	locale := knowledge.Locale(cfg.Knowledge.Locale)
	tokenizer := knowledge.NewTokenizer(locale)
	source := knowledge.NewFileSource(cfg.Knowledge.FilePath, logger.GetLogger())

	opts := []knowledge.Option{
		knowledge.WithThreshold(cfg.Knowledge.AnswerThreshold),
		knowledge.WithSearchLimit(cfg.Knowledge.SearchLimit),
		knowledge.WithSuggestionLimit(cfg.Knowledge.SuggestionLimit),
		knowledge.WithLogger(logger.GetLogger()),
	}
	if len(cfg.Knowledge.DomainTerms) > 0 {
		opts = append(opts, knowledge.WithDomainTerms(cfg.Knowledge.DomainTerms))
	}
	app.Engine = knowledge.NewEngine(source, tokenizer, opts...)

	// 初次加载失败不致命：引擎以空知识库启动，检索统一返回无候选
	if err := app.Engine.Load(); err != nil {
		logger.Warn("知识库初次加载失败，引擎以空知识库启动", zap.Error(err))
	}
	app.MetricsService.SetKnowledgeStats(app.Engine.Stats())

	// 文件监听自动重载
	if cfg.Knowledge.WatchFile {
		watcher, err := knowledge.NewWatcher(cfg.Knowledge.FilePath, app.Engine, logger.GetLogger())
		if err != nil {
			logger.Warn("知识库文件监听启动失败", zap.Error(err))
		} else {
			watcher.Start()
			app.cleanupTasks = append(app.cleanupTasks, watcher.Stop)
		}
	}

	// 生成式回退（可选）
	var fallback services.Completer
	if client := ai.NewClient(&cfg.AI); client != nil {
		fallback = client
	} else {
		logger.Warn("未配置生成式回退，低置信度问题使用兜底文案")
	}

	sessions := services.NewSessionService(database.RedisClient)
	app.ChatService = services.NewChatService(
		app.Engine, sessions, fallback, app.MetricsService, locale, logger.GetLogger())

	// 管理接口认证
	var jwtService *auth.JWTService
	if cfg.Admin.JWTSecret != "" {
		jwtService = auth.NewJWTService(cfg.Admin.JWTSecret, "chatbot-admin", 24*time.Hour)
	} else {
		logger.Warn("未配置admin.jwt_secret，管理接口将拒绝所有请求")
	}
	app.Security = middleware.NewSecurityMiddleware(jwtService)

	return app, nil
}

// Shutdown releases resources in reverse initialization order.
func (a *App) Shutdown() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Warn("cleanup task failed", zap.Error(err))
		}
	}
	logger.Sync()
}
