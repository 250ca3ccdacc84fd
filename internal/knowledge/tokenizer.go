package knowledge

import (
	"strings"
	"unicode"
)

// Locale 分词策略
type Locale string

const (
	LocaleLatin Locale = "latin"
	LocaleCJK   Locale = "cjk"
)

const (
	minTokenRunes    = 2
	fragmentMinRunes = 3
	fragmentMaxRunes = 6
	fragmentCutoff   = 4 // 超过该长度的词才生成子串片段
)

// Tokenizer 文本归一化与分词策略
// 索引和查询两侧必须使用同一个Tokenizer实例，否则term无法对齐
type Tokenizer interface {
	Locale() Locale
	// Normalize 归一化文本：小写、去标点
	Normalize(text string) string
	// Tokenize 生成索引用token集合（已去重）
	Tokenize(text string) []string
	// QueryTokens 生成查询用token集合，CJK策略需要对照索引词表
	QueryTokens(query string, index *InvertedIndex) []string
}

// NewTokenizer 按区域创建分词器
func NewTokenizer(locale Locale) Tokenizer {
	if locale == LocaleCJK {
		return &cjkTokenizer{}
	}
	return &latinTokenizer{}
}

// latinTokenizer 拉丁文本分词：按空白切分并补充子串片段
type latinTokenizer struct{}

func (t *latinTokenizer) Locale() Locale { return LocaleLatin }

func (t *latinTokenizer) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func (t *latinTokenizer) Tokenize(text string) []string {
	norm := t.Normalize(text)
	if norm == "" {
		return nil
	}

	set := newTokenSet()
	for _, word := range strings.Fields(norm) {
		runes := []rune(word)
		if len(runes) < minTokenRunes {
			continue
		}
		set.add(word)

		// 长词补充3-6字符的连续子串，支持词干/部分匹配
		if len(runes) <= fragmentCutoff {
			continue
		}
		for size := fragmentMinRunes; size <= fragmentMaxRunes && size <= len(runes); size++ {
			for start := 0; start+size <= len(runes); start++ {
				set.add(string(runes[start : start+size]))
			}
		}
	}
	return set.values()
}

func (t *latinTokenizer) QueryTokens(query string, _ *InvertedIndex) []string {
	return t.Tokenize(query)
}

// cjkTokenizer 中日韩文本分词：无可靠词边界，不做切分
// 索引侧将整句归一化后作为单一term；查询侧按"查询是否包含索引词"提取token
type cjkTokenizer struct{}

func (t *cjkTokenizer) Locale() Locale { return LocaleCJK }

func (t *cjkTokenizer) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (t *cjkTokenizer) Tokenize(text string) []string {
	norm := t.Normalize(text)
	if norm == "" {
		return nil
	}
	return []string{norm}
}

func (t *cjkTokenizer) QueryTokens(query string, index *InvertedIndex) []string {
	norm := t.Normalize(query)
	if norm == "" || index == nil {
		return nil
	}

	var tokens []string
	for _, term := range index.Terms() {
		if strings.Contains(norm, term) {
			tokens = append(tokens, term)
		}
	}
	return tokens
}

// tokenSet 保持插入顺序的去重集合
type tokenSet struct {
	seen  map[string]struct{}
	items []string
}

func newTokenSet() *tokenSet {
	return &tokenSet{seen: make(map[string]struct{})}
}

func (s *tokenSet) add(token string) {
	if _, ok := s.seen[token]; ok {
		return
	}
	s.seen[token] = struct{}{}
	s.items = append(s.items, token)
}

func (s *tokenSet) values() []string {
	return s.items
}
