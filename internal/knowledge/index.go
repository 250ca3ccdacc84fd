package knowledge

import (
	"sort"
	"strings"
)

// DefaultDomainTerms 答案字段的域词表
// 索引答案时不做整体分词，只检查这些预设术语是否出现在答案文本中
var DefaultDomainTerms = []string{
	"appointment", "booking", "schedule", "doctor", "clinic",
	"address", "location", "hours", "open", "price", "payment",
	"insurance", "phone", "email", "service",
	"预约", "挂号", "门诊", "医生", "地址", "电话",
	"时间", "价格", "营业", "保险", "支付", "服务",
}

// InvertedIndex token到条目位置的倒排映射，附带排序用的条目元数据
// 始终由当前知识库快照整体重建，不做增量更新
type InvertedIndex struct {
	postings      map[string][]int
	terms         []string            // 排序后的全部term，CJK查询侧遍历用
	normQuestions []string            // 条目问题的归一化缓存
	keywordSets   []map[string]struct{} // 条目关键词集合（归一化）
}

// BuildIndex 从知识库快照构建倒排索引
// 空知识库返回空索引，检索时自然得到零候选
func BuildIndex(kb *KnowledgeBase, tok Tokenizer, domainTerms []string) *InvertedIndex {
	ix := &InvertedIndex{
		postings: make(map[string][]int),
	}
	if kb == nil {
		return ix
	}
	if domainTerms == nil {
		domainTerms = DefaultDomainTerms
	}

	ix.normQuestions = make([]string, len(kb.Entries))
	ix.keywordSets = make([]map[string]struct{}, len(kb.Entries))

	for pos, entry := range kb.Entries {
		ix.normQuestions[pos] = tok.Normalize(entry.Question)

		perEntry := newTokenSet()

		// 问题字段：正常分词
		for _, token := range tok.Tokenize(entry.Question) {
			perEntry.add(token)
		}

		// 关键词字段：人工维护的触发词，整词入索引不再切分
		kwSet := make(map[string]struct{}, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			norm := tok.Normalize(kw)
			if norm == "" {
				continue
			}
			kwSet[norm] = struct{}{}
			perEntry.add(norm)
		}
		ix.keywordSets[pos] = kwSet

		// 答案字段：只提取域词表中出现的术语
		normAnswer := tok.Normalize(entry.Answer)
		for _, term := range domainTerms {
			normTerm := tok.Normalize(term)
			if normTerm == "" {
				continue
			}
			if strings.Contains(normAnswer, normTerm) {
				perEntry.add(normTerm)
			}
		}

		for _, token := range perEntry.values() {
			ix.postings[token] = append(ix.postings[token], pos)
		}
	}

	ix.terms = make([]string, 0, len(ix.postings))
	for term := range ix.postings {
		ix.terms = append(ix.terms, term)
	}
	sort.Strings(ix.terms)

	return ix
}

// Lookup 返回包含该token的条目位置（升序）
func (ix *InvertedIndex) Lookup(token string) []int {
	return ix.postings[token]
}

// Terms 返回索引全部term（已排序，保证遍历确定性）
func (ix *InvertedIndex) Terms() []string {
	return ix.terms
}

// Size 索引term数量
func (ix *InvertedIndex) Size() int {
	return len(ix.postings)
}

// normQuestion 条目问题的归一化缓存
func (ix *InvertedIndex) normQuestion(pos int) string {
	if pos < 0 || pos >= len(ix.normQuestions) {
		return ""
	}
	return ix.normQuestions[pos]
}

// hasKeyword token是否命中条目的人工关键词
func (ix *InvertedIndex) hasKeyword(pos int, token string) bool {
	if pos < 0 || pos >= len(ix.keywordSets) {
		return false
	}
	_, ok := ix.keywordSets[pos][token]
	return ok
}
