package services

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aihub/chatbot-go/internal/knowledge"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	ms := NewMetricsService(reg)

	ms.ObserveMessage(SourceCanned)
	ms.ObserveMessage(SourceFallback)
	ms.ObserveSearch(5 * time.Millisecond)
	ms.ObserveReload(true)
	ms.ObserveReload(false)
	ms.SetKnowledgeStats(knowledge.Stats{Entries: 10, IndexTerms: 42})

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["chatbot_messages_total"])
	assert.True(t, names["chatbot_search_duration_seconds"])
	assert.True(t, names["chatbot_knowledge_reloads_total"])
	assert.True(t, names["chatbot_knowledge_entries"])
	assert.True(t, names["chatbot_knowledge_index_terms"])
}

func TestMetricsHandlerServesOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	ms := NewMetricsService(reg)
	ms.ObserveMessage(SourceCanned)

	// Handler必须输出注册指标的那个注册表
	w := httptest.NewRecorder()
	ms.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "chatbot_messages_total")
}
