package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Knowledge KnowledgeConfig
	AI        AIConfig
	Webhook   WebhookConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Host string
	Port string
	DB   int
}

// KnowledgeConfig 知识库引擎配置
type KnowledgeConfig struct {
	FilePath        string   // 知识库JSON文件路径
	Locale          string   // latin | cjk
	AnswerThreshold int      // 智能回答置信度阈值（含等于）
	SearchLimit     int      // 默认检索条数
	SuggestionLimit int      // 快捷回复建议条数
	WatchFile       bool     // 是否监听文件变更自动重载
	DomainTerms     []string // 答案域词表，空则使用内置词表
}

type AIConfig struct {
	OpenAIAPIKey string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
	Enabled      bool
	SystemPrompt string
}

// WebhookConfig 消息平台Webhook配置
type WebhookConfig struct {
	Secret          string // HMAC-SHA256 签名密钥
	SignatureHeader string
}

// AdminConfig 管理接口配置
type AdminConfig struct {
	JWTSecret string
}

// AppConfig 全局配置实例
var AppConfig *Config

// LoadConfig 加载配置（环境变量优先）
func LoadConfig() error {
	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.db", 0)

	// 知识库配置默认值
	viper.SetDefault("knowledge.file_path", "./data/knowledge.json")
	viper.SetDefault("knowledge.locale", "latin")
	viper.SetDefault("knowledge.answer_threshold", 3)
	viper.SetDefault("knowledge.search_limit", 5)
	viper.SetDefault("knowledge.suggestion_limit", 3)
	viper.SetDefault("knowledge.watch_file", false)
	viper.SetDefault("knowledge.domain_terms", []string{})

	// AI回退配置默认值
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("ai.max_tokens", 500)
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.system_prompt", "你是一个友好的客服助手，请基于用户问题给出简洁、准确的回答。")

	viper.SetDefault("webhook.signature_header", "X-Hub-Signature-256")

	// 环境变量绑定：KNOWLEDGE_FILE_PATH 等
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Redis: RedisConfig{
			Host: viper.GetString("redis.host"),
			Port: viper.GetString("redis.port"),
			DB:   viper.GetInt("redis.db"),
		},
		Knowledge: KnowledgeConfig{
			FilePath:        viper.GetString("knowledge.file_path"),
			Locale:          viper.GetString("knowledge.locale"),
			AnswerThreshold: viper.GetInt("knowledge.answer_threshold"),
			SearchLimit:     viper.GetInt("knowledge.search_limit"),
			SuggestionLimit: viper.GetInt("knowledge.suggestion_limit"),
			WatchFile:       viper.GetBool("knowledge.watch_file"),
			DomainTerms:     viper.GetStringSlice("knowledge.domain_terms"),
		},
		AI: AIConfig{
			OpenAIAPIKey: viper.GetString("ai.openai_api_key"),
			BaseURL:      viper.GetString("ai.base_url"),
			Model:        viper.GetString("ai.model"),
			MaxTokens:    viper.GetInt("ai.max_tokens"),
			Temperature:  viper.GetFloat64("ai.temperature"),
			Enabled:      viper.GetBool("ai.enabled"),
			SystemPrompt: viper.GetString("ai.system_prompt"),
		},
		Webhook: WebhookConfig{
			Secret:          viper.GetString("webhook.secret"),
			SignatureHeader: viper.GetString("webhook.signature_header"),
		},
		Admin: AdminConfig{
			JWTSecret: viper.GetString("admin.jwt_secret"),
		},
	}

	if err := validate(cfg); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// GetAppConfig 获取全局配置
func GetAppConfig() *Config {
	return AppConfig
}

func validate(cfg *Config) error {
	if cfg.Knowledge.AnswerThreshold < 0 {
		return fmt.Errorf("knowledge.answer_threshold must be >= 0, got %d", cfg.Knowledge.AnswerThreshold)
	}
	switch cfg.Knowledge.Locale {
	case "latin", "cjk":
	default:
		return fmt.Errorf("knowledge.locale must be latin or cjk, got %q", cfg.Knowledge.Locale)
	}
	if cfg.Server.Env == "production" {
		if cfg.Admin.JWTSecret == "" {
			return fmt.Errorf("admin.jwt_secret is required in production")
		}
		if cfg.Webhook.Secret == "" {
			fmt.Fprintln(os.Stderr, "warning: webhook.secret is empty, signature check disabled")
		}
	}
	return nil
}
