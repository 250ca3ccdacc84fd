package services

import (
	"net/http"
	"time"

	"github.com/aihub/chatbot-go/internal/knowledge"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService Prometheus指标服务
type MetricsService struct {
	gatherer prometheus.Gatherer

	messagesTotal  *prometheus.CounterVec
	searchDuration prometheus.Histogram
	reloadsTotal   *prometheus.CounterVec
	kbEntries      prometheus.Gauge
	kbIndexTerms   prometheus.Gauge
}

// NewMetricsService 创建并注册指标，registerer为nil时使用默认注册表
// Handler从注册指标的同一个注册表输出
func NewMetricsService(registerer prometheus.Registerer) *MetricsService {
	gatherer := prometheus.Gatherer(prometheus.DefaultGatherer)
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	} else if g, ok := registerer.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ms := &MetricsService{
		gatherer: gatherer,
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_messages_total",
			Help: "按回答来源统计的消息总数",
		}, []string{"source"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatbot_search_duration_seconds",
			Help:    "知识库检索耗时",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_knowledge_reloads_total",
			Help: "知识库重载次数",
		}, []string{"result"}),
		kbEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatbot_knowledge_entries",
			Help: "当前一代知识库条目数",
		}),
		kbIndexTerms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatbot_knowledge_index_terms",
			Help: "当前一代倒排索引term数",
		}),
	}

	registerer.MustRegister(
		ms.messagesTotal,
		ms.searchDuration,
		ms.reloadsTotal,
		ms.kbEntries,
		ms.kbIndexTerms,
	)
	return ms
}

// Handler 返回Prometheus指标的HTTP处理器
func (ms *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(ms.gatherer, promhttp.HandlerOpts{})
}

// ObserveMessage 记录一条消息及其回答来源
func (ms *MetricsService) ObserveMessage(source string) {
	ms.messagesTotal.WithLabelValues(source).Inc()
}

// ObserveSearch 记录一次检索耗时
func (ms *MetricsService) ObserveSearch(d time.Duration) {
	ms.searchDuration.Observe(d.Seconds())
}

// ObserveReload 记录一次重载结果
func (ms *MetricsService) ObserveReload(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	ms.reloadsTotal.WithLabelValues(result).Inc()
}

// SetKnowledgeStats 更新知识库规模指标
func (ms *MetricsService) SetKnowledgeStats(stats knowledge.Stats) {
	ms.kbEntries.Set(float64(stats.Entries))
	ms.kbIndexTerms.Set(float64(stats.IndexTerms))
}
