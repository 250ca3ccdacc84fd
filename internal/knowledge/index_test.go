package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndexQuestionAndKeywords(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)
	kb := &KnowledgeBase{
		Entries: []FAQEntry{
			{ID: "hours", Question: "clinic hours", Answer: "9am to 6pm", Keywords: []string{"open"}},
			{ID: "addr", Question: "clinic address", Answer: "1 Main St", Keywords: []string{"location"}},
		},
	}
	ix := BuildIndex(kb, tok, []string{"insurance"})

	// 问题token被两个条目共享
	assert.ElementsMatch(t, []int{0, 1}, ix.Lookup("clinic"))
	assert.Equal(t, []int{0}, ix.Lookup("hours"))
	// 关键词整词入索引
	assert.Equal(t, []int{0}, ix.Lookup("open"))
	assert.Equal(t, []int{1}, ix.Lookup("location"))
	assert.True(t, ix.hasKeyword(0, "open"))
	assert.False(t, ix.hasKeyword(1, "open"))
}

func TestBuildIndexDomainTermsFromAnswer(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)
	kb := &KnowledgeBase{
		Entries: []FAQEntry{
			{ID: "pay", Question: "how to pay", Answer: "We accept insurance and card payment."},
		},
	}
	ix := BuildIndex(kb, tok, []string{"insurance", "refund"})

	// 答案只按域词表做包含提取，不整体分词
	assert.Equal(t, []int{0}, ix.Lookup("insurance"))
	assert.Empty(t, ix.Lookup("refund"))
	assert.Empty(t, ix.Lookup("card"))
	assert.Empty(t, ix.Lookup("accept"))
}

func TestBuildIndexEmptyKnowledgeBase(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)

	ix := BuildIndex(NewEmptyKnowledgeBase(), tok, nil)
	assert.Equal(t, 0, ix.Size())
	assert.Empty(t, ix.Terms())

	ix = BuildIndex(nil, tok, nil)
	assert.Equal(t, 0, ix.Size())
}

func TestBuildIndexTermsSorted(t *testing.T) {
	tok := NewTokenizer(LocaleLatin)
	kb := &KnowledgeBase{
		Entries: []FAQEntry{
			{ID: "x", Question: "zebra apple", Answer: "ok"},
		},
	}
	ix := BuildIndex(kb, tok, nil)

	terms := ix.Terms()
	assert.True(t, sortedStrings(terms), "index terms must be sorted for deterministic iteration")
}

func sortedStrings(xs []string) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i-1] > xs[i] {
			return false
		}
	}
	return true
}
