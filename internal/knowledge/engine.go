package knowledge

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultThreshold       = 3
	defaultSearchLimit     = 5
	defaultSuggestionLimit = 3
	answerCandidateLimit   = 3
)

// Source 知识库后端，文件、数据库或远程服务均可
type Source interface {
	Load() (*KnowledgeBase, error)
}

// generation 一代不可变的（知识库，索引）对
type generation struct {
	kb       *KnowledgeBase
	index    *InvertedIndex
	loadedAt time.Time
}

// Engine 知识库检索引擎
// (KnowledgeBase, InvertedIndex)对由读写锁保护：重载时先在旁路完整构建
// 新一代，再一次性替换引用，检索方只会看到完整的新旧两代之一
type Engine struct {
	mu sync.RWMutex

	source          Source
	tokenizer       Tokenizer
	domainTerms     []string
	threshold       int
	searchLimit     int
	suggestionLimit int
	logger          *zap.Logger

	gen *generation
}

// Option 引擎可选参数
type Option func(*Engine)

// WithThreshold 设置智能回答置信度阈值（含等于）
func WithThreshold(threshold int) Option {
	return func(e *Engine) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// WithDomainTerms 覆盖答案字段的域词表
func WithDomainTerms(terms []string) Option {
	return func(e *Engine) {
		if len(terms) > 0 {
			e.domainTerms = terms
		}
	}
}

// WithSearchLimit 设置调用方未指定limit时的默认检索条数
func WithSearchLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.searchLimit = limit
		}
	}
}

// WithSuggestionLimit 设置快捷回复建议条数
func WithSuggestionLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.suggestionLimit = limit
		}
	}
}

// WithLogger 注入Logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine 创建引擎，调用Load之前引擎持有空知识库
func NewEngine(source Source, tokenizer Tokenizer, opts ...Option) *Engine {
	e := &Engine{
		source:          source,
		tokenizer:       tokenizer,
		domainTerms:     DefaultDomainTerms,
		threshold:       defaultThreshold,
		searchLimit:     defaultSearchLimit,
		suggestionLimit: defaultSuggestionLimit,
		logger:          zap.L(),
	}
	for _, opt := range opts {
		opt(e)
	}

	// 初始为空代，加载前检索统一返回无候选
	empty := NewEmptyKnowledgeBase()
	e.gen = &generation{
		kb:       empty,
		index:    BuildIndex(empty, tokenizer, e.domainTerms),
		loadedAt: time.Now(),
	}
	return e
}

// Load 从后端加载知识库并重建索引
// 加载失败不会让引擎不可用：已有数据时保留上一代，否则退化为空知识库
// 返回的error仅供管理端上报，检索接口不受影响
func (e *Engine) Load() error {
	kb, err := e.source.Load()
	if err != nil {
		e.logger.Warn("知识库加载失败，保持当前数据", zap.Error(err))
		return err
	}

	// 在旁路完整构建新一代，随后一次性替换引用
	next := &generation{
		kb:       kb,
		index:    BuildIndex(kb, e.tokenizer, e.domainTerms),
		loadedAt: time.Now(),
	}

	e.mu.Lock()
	e.gen = next
	e.mu.Unlock()

	e.logger.Info("知识库已加载",
		zap.Int("entries", len(kb.Entries)),
		zap.Int("categories", len(kb.Categories)),
		zap.Int("quick_replies", len(kb.QuickReplies)),
		zap.Int("index_terms", next.index.Size()))
	return nil
}

// Reload 重新加载知识库，整代替换，失败时上一代继续可用
func (e *Engine) Reload() error {
	return e.Load()
}

// snapshot 获取当前一代的一致快照
func (e *Engine) snapshot() *generation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen
}

// Search 检索知识库，返回按相关度降序的结果
// 永不返回错误：退化状态下得到空列表；limit <= 0 时使用引擎默认条数
func (e *Engine) Search(query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = e.searchLimit
	}
	gen := e.snapshot()
	return rankEntries(query, gen.kb, gen.index, e.tokenizer, limit)
}

// SmartAnswer 智能回答决策
// threshold <= 0 时使用引擎默认阈值；阈值判断为含等于边界
func (e *Engine) SmartAnswer(query string, threshold int) AnswerDecision {
	if threshold <= 0 {
		threshold = e.threshold
	}

	gen := e.snapshot()
	results := rankEntries(query, gen.kb, gen.index, e.tokenizer, answerCandidateLimit)

	if len(results) == 0 {
		return AnswerDecision{
			Kind:        DecisionNotFound,
			Suggestions: e.defaultSuggestions(gen.kb),
		}
	}

	top := results[0]
	if top.Score >= threshold {
		return AnswerDecision{
			Kind:           DecisionFound,
			Answer:         top.Entry.Answer,
			SourceQuestion: top.Entry.Question,
			Category:       top.Entry.Category,
			Confidence:     top.Score,
			Suggestions:    e.categorySuggestions(gen.kb, top.Entry.Category),
		}
	}

	return AnswerDecision{
		Kind:        DecisionAmbiguous,
		Candidates:  results,
		Suggestions: e.defaultSuggestions(gen.kb),
	}
}

// Stats 当前一代的统计信息
func (e *Engine) Stats() Stats {
	gen := e.snapshot()
	return Stats{
		Entries:      len(gen.kb.Entries),
		Categories:   len(gen.kb.Categories),
		QuickReplies: len(gen.kb.QuickReplies),
		IndexTerms:   gen.index.Size(),
	}
}

// LoadedAt 当前一代的加载时间
func (e *Engine) LoadedAt() time.Time {
	return e.snapshot().loadedAt
}

// defaultSuggestions 默认建议：不过滤分类，取前N条快捷回复
func (e *Engine) defaultSuggestions(kb *KnowledgeBase) []QuickReply {
	limit := e.suggestionLimit
	if len(kb.QuickReplies) < limit {
		limit = len(kb.QuickReplies)
	}
	return append([]QuickReply(nil), kb.QuickReplies[:limit]...)
}

// categorySuggestions 按分类过滤快捷回复
func (e *Engine) categorySuggestions(kb *KnowledgeBase, category string) []QuickReply {
	var suggestions []QuickReply
	for _, qr := range kb.QuickReplies {
		if qr.Category != category {
			continue
		}
		suggestions = append(suggestions, qr)
		if len(suggestions) >= e.suggestionLimit {
			break
		}
	}
	return suggestions
}
