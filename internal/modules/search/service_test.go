package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcfg "github.com/trendscope/core/internal/config"
	"github.com/trendscope/core/internal/modules/content"
)

func testCorpus() []content.Item {
	return []content.Item{
		{ID: "a1", Title: "Transformers explained", Summary: "A walkthrough of attention", Tags: []string{"ai", "deep-learning"}, EngagementScore: 70},
		{ID: "a2", Title: "Rust for systems programming", Summary: "Memory safety without GC", Tags: []string{"rust"}, EngagementScore: 90},
		{ID: "a3", Title: "Vector databases compared", Summary: "Picking a store for embeddings", Tags: []string{"ai", "rag"}, EngagementScore: 55},
		{ID: "a4", Title: "Kubernetes networking", Summary: "Services, ingress and CNI", Tags: []string{"devops"}, EngagementScore: 80},
	}
}

// No providers configured: the service should fall back to keyword search
// and still return a usable result.
func TestSearchFallsBackWithoutProvider(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, zap.NewNop())

	result := svc.Search(context.Background(), "rust", testCorpus())

	require.Len(t, result.Items, 1)
	assert.Equal(t, "a2", result.Items[0].ID)
	assert.True(t, result.HasExactMatches)
	assert.Equal(t, "Basic search (AI unavailable)", result.ExpandedQuery.Intent)
	assert.NotNil(t, result.ExpandedQuery.Synonyms)
	assert.NotNil(t, result.ExpandedQuery.RelatedTopics)
}

func TestBasicSearchMatchesTags(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, zap.NewNop())

	result := svc.basicSearch("rag", testCorpus())

	require.Len(t, result.Items, 1)
	assert.Equal(t, "a3", result.Items[0].ID)
	assert.True(t, result.HasExactMatches)
}

func TestBasicSearchNoMatchesReturnsTrending(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, zap.NewNop())

	result := svc.basicSearch("quantum chromodynamics", testCorpus())

	require.Len(t, result.Items, 4)
	assert.Equal(t, "a2", result.Items[0].ID) // highest engagement first
	assert.Equal(t, "a4", result.Items[1].ID)
	assert.False(t, result.HasExactMatches)
}

func TestBasicSearchTrendingCapsAtFifteen(t *testing.T) {
	items := make([]content.Item, 30)
	for i := range items {
		items[i] = content.Item{ID: string(rune('a' + i)), Title: "item", EngagementScore: i}
	}
	svc := NewService(appcfg.AIConfig{}, zap.NewNop())

	result := svc.basicSearch("nomatch", items)
	assert.Len(t, result.Items, 15)
}

func TestRankPrefersExactQueryHits(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, zap.NewNop())
	analysis := &queryAnalysis{
		Intent:        "learn about transformer models",
		Synonyms:      []string{"attention"},
		RelatedTopics: []string{"embeddings"},
	}

	result := svc.rank("transformers", analysis, testCorpus())

	require.NotEmpty(t, result.Items)
	assert.Equal(t, "a1", result.Items[0].ID)
	assert.True(t, result.HasExactMatches)
	assert.Equal(t, "transformers", result.ExpandedQuery.Original)
	assert.Equal(t, []string{"attention"}, result.ExpandedQuery.Synonyms)
	assert.Equal(t, "learn about transformer models", result.ExpandedQuery.Intent)
}

func TestRankPadsThinResultsWithTrending(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, zap.NewNop())
	analysis := &queryAnalysis{}

	result := svc.rank("completely unrelated phrase", analysis, testCorpus())

	assert.False(t, result.HasExactMatches)
	// every item scores only its engagement bonus, then trending padding
	// deduplicates, so nothing is lost
	assert.Len(t, result.Items, 4)
	assert.Equal(t, "General search", result.ExpandedQuery.Intent)
}
