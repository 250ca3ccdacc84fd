package knowledge

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// 评分权重：人工关键词命中 > 长token > 一般文本重叠
// 整句包含给大额固定加分，保证精确提问稳定排第一
const (
	exactMatchBonus = 10
	tokenBaseScore  = 1
	keywordBonus    = 2
	longTokenBonus  = 1
	longTokenRunes  = 4
)

// rankEntries 对知识库快照执行两阶段评分检索
// 纯函数：固定快照下相同输入必然得到相同输出顺序
func rankEntries(query string, kb *KnowledgeBase, ix *InvertedIndex, tok Tokenizer, limit int) []SearchResult {
	if kb == nil || ix == nil || len(kb.Entries) == 0 {
		return nil
	}

	normQuery := tok.Normalize(query)
	if normQuery == "" {
		// 空查询直接短路，不扫描索引
		return nil
	}

	scores := make([]int, len(kb.Entries))

	// 阶段一：整句包含加分
	// 拉丁：查询是问题的子串；CJK双向，用户可能把完整问题嵌在长消息里
	for pos := range kb.Entries {
		normQuestion := ix.normQuestion(pos)
		if normQuestion == "" {
			continue
		}
		if strings.Contains(normQuestion, normQuery) {
			scores[pos] += exactMatchBonus
			continue
		}
		if tok.Locale() == LocaleCJK && strings.Contains(normQuery, normQuestion) {
			scores[pos] += exactMatchBonus
		}
	}

	// 阶段二：token重叠累加
	for _, token := range tok.QueryTokens(query, ix) {
		perToken := tokenBaseScore
		if utf8.RuneCountInString(token) >= longTokenRunes {
			perToken += longTokenBonus
		}
		for _, pos := range ix.Lookup(token) {
			score := perToken
			if ix.hasKeyword(pos, token) {
				score += keywordBonus
			}
			scores[pos] += score
		}
	}

	// 零分条目不进入结果
	results := make([]SearchResult, 0)
	for pos, score := range scores {
		if score > 0 {
			results = append(results, SearchResult{Entry: kb.Entries[pos], Score: score})
		}
	}

	// 分数降序，同分按priority升序；SliceStable保底按加载顺序
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Priority < results[j].Entry.Priority
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
