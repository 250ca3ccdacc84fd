package knowledge

// FAQEntry 知识库条目：人工维护的问答记录
type FAQEntry struct {
	ID       string   `json:"id" validate:"required"`
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
	Priority int      `json:"priority"` // 数值越小优先级越高，用于同分排序
}

// Category 条目分组标签
type Category struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label"`
}

// QuickReply 快捷回复：回答附带的后续操作建议
type QuickReply struct {
	ID       string `json:"id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Payload  string `json:"payload"`
	Category string `json:"category"`
}

// KnowledgeBase 一代知识库快照，加载后不可变
type KnowledgeBase struct {
	Entries      []FAQEntry   `json:"faqs"`
	Categories   []Category   `json:"categories"`
	QuickReplies []QuickReply `json:"quick_replies"`
}

// NewEmptyKnowledgeBase 创建空知识库（加载失败时的退化状态）
func NewEmptyKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{}
}

// SearchResult 检索结果，Score为非负整数，越大越相关
type SearchResult struct {
	Entry FAQEntry `json:"entry"`
	Score int      `json:"score"`
}

// DecisionKind 智能回答决策类型
type DecisionKind string

const (
	DecisionFound     DecisionKind = "found"
	DecisionAmbiguous DecisionKind = "ambiguous"
	DecisionNotFound  DecisionKind = "not_found"
)

// AnswerDecision 智能回答决策
// Found: 置信度达到阈值，直接返回答案
// Ambiguous: 有候选但低于阈值，返回消歧列表
// NotFound: 无任何候选
type AnswerDecision struct {
	Kind           DecisionKind   `json:"kind"`
	Answer         string         `json:"answer,omitempty"`
	SourceQuestion string         `json:"source_question,omitempty"`
	Category       string         `json:"category,omitempty"`
	Confidence     int            `json:"confidence,omitempty"`
	Candidates     []SearchResult `json:"candidates,omitempty"`
	Suggestions    []QuickReply   `json:"suggestions"`
}

// Stats 引擎统计信息，用于健康检查和监控
type Stats struct {
	Entries      int `json:"entries"`
	Categories   int `json:"categories"`
	QuickReplies int `json:"quick_replies"`
	IndexTerms   int `json:"index_terms"`
}
