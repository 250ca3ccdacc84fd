package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatinNormalize(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)

	assert.Equal(t, "clinic hours", tok.Normalize("  Clinic   HOURS?! "))
	assert.Equal(t, "what s the price", tok.Normalize("What's the price"))
	assert.Equal(t, "", tok.Normalize("  ... !!! "))
}

func TestLatinTokenizeDropsShortTokens(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)

	tokens := tok.Tokenize("a is an ok day")
	// 单字符token被丢弃，2字符保留
	assert.NotContains(t, tokens, "a")
	assert.Contains(t, tokens, "is")
	assert.Contains(t, tokens, "ok")
	assert.Contains(t, tokens, "day")
}

func TestLatinTokenizeEmitsFragments(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)

	tokens := tok.Tokenize("booking")
	assert.Contains(t, tokens, "booking")
	// 超过4字符的词生成3-6字符连续子串
	assert.Contains(t, tokens, "boo")
	assert.Contains(t, tokens, "king")
	assert.Contains(t, tokens, "ooking")
	assert.NotContains(t, tokens, "bo")

	// 恰好4字符的词不生成子串
	short := tok.Tokenize("open")
	assert.Equal(t, []string{"open"}, short)
}

func TestLatinTokenizeDeduplicates(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)

	tokens := tok.Tokenize("open open OPEN")
	count := 0
	for _, tk := range tokens {
		if tk == "open" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLatinTokenizeEmptyInput(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)

	assert.Empty(t, tok.Tokenize(""))
	assert.Empty(t, tok.Tokenize("   \t\n"))
}

func TestCJKNormalize(t *testing.T) {
	tok := NewTokenizer(LocaleCJK)

	assert.Equal(t, "门诊时间", tok.Normalize("门诊 时间？"))
	assert.Equal(t, "预约挂号abc", tok.Normalize("预约挂号 ABC！"))
}

func TestCJKTokenizeWholeText(t *testing.T) {
	tok := NewTokenizer(LocaleCJK)

	// CJK无词边界，索引侧整句作为单一term
	assert.Equal(t, []string{"门诊时间"}, tok.Tokenize("门诊时间？"))
	assert.Empty(t, tok.Tokenize("。。。"))
}

func TestCJKQueryTokensByContainment(t *testing.T) {
	tok := NewTokenizer(LocaleCJK)
	kb := &KnowledgeBase{
		Entries: []FAQEntry{
			{ID: "hours", Question: "门诊时间", Answer: "周一到周五", Keywords: []string{"时间", "营业"}},
			{ID: "addr", Question: "医院地址", Answer: "人民路1号", Keywords: []string{"地址"}},
		},
	}
	ix := BuildIndex(kb, tok, []string{"none"})

	tokens := tok.QueryTokens("请问门诊时间是几点", ix)
	assert.Contains(t, tokens, "时间")
	assert.Contains(t, tokens, "门诊时间")
	assert.NotContains(t, tokens, "地址")
	assert.NotContains(t, tokens, "营业")

	assert.Empty(t, tok.QueryTokens("", ix))
}
