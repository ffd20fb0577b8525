package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/core/internal/pkg/llm"
)

func TestNormalizeBackfillsAbsentFields(t *testing.T) {
	result, err := Normalize(`{"confidence_score": 72}`)
	require.NoError(t, err)

	assert.NotNil(t, result.RankedPapers)
	assert.Empty(t, result.RankedPapers)
	assert.NotNil(t, result.Claims)
	assert.NotNil(t, result.SupportingPapers)
	assert.NotNil(t, result.ConflictingPapers)
	assert.NotNil(t, result.Contradictions)
	assert.NotNil(t, result.EvidenceGaps)
	assert.Equal(t, 72.0, result.ConfidenceScore)
	assert.Equal(t, 0.5, result.ConfidenceBreakdown.Recency)
	assert.Equal(t, 0.5, result.ConfidenceBreakdown.Relevance)
	assert.Equal(t, 0.5, result.ConfidenceBreakdown.Agreement)
	assert.NotNil(t, result.ConfidenceSignals.Positive)
	assert.NotNil(t, result.ConfidenceSignals.Negative)
	assert.NotNil(t, result.ConfidenceSignals.Neutral)
}

func TestNormalizePreservesPresentFields(t *testing.T) {
	raw := `{
		"ranked_papers": [{"title": "Paper One", "author": "Chen", "relevance_score": 95}],
		"claims": [{"text": "X holds", "type": "finding", "strength": "strong"}],
		"confidence_score": 88,
		"confidence_breakdown": {"recency": 0.9, "relevance": 0.8, "agreement": 0.7},
		"confidence_signals": {"positive": ["recent work"], "negative": [], "neutral": []},
		"reasoning_summary": "solid evidence"
	}`
	result, err := Normalize(raw)
	require.NoError(t, err)

	require.Len(t, result.RankedPapers, 1)
	assert.Equal(t, "Paper One", result.RankedPapers[0].Title)
	assert.Equal(t, 95.0, result.RankedPapers[0].RelevanceScore)
	require.Len(t, result.Claims, 1)
	assert.Equal(t, "X holds", result.Claims[0].Text)
	assert.Equal(t, "strong", result.Claims[0].Strength)
	assert.Equal(t, 0.9, result.ConfidenceBreakdown.Recency)
	assert.Equal(t, []string{"recent work"}, result.ConfidenceSignals.Positive)
	assert.Equal(t, "solid evidence", result.ReasoningSummary)
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"confidence_score\": 50}\n```"
	result, err := Normalize(fenced)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.ConfidenceScore)

	bare := "```\n{\"confidence_score\": 40}\n```"
	result, err = Normalize(bare)
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.ConfidenceScore)
}

func TestNormalizeParseErrorOnMalformedJSON(t *testing.T) {
	_, err := Normalize(`I could not produce JSON, sorry.`)
	require.Error(t, err)

	var parseErr *llm.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestNormalizeDoesNotClampOutOfRangeValues(t *testing.T) {
	raw := `{
		"confidence_score": 140,
		"confidence_breakdown": {"recency": 1.7, "relevance": -0.2, "agreement": 0.5}
	}`
	result, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, 140.0, result.ConfidenceScore)
	assert.Equal(t, 1.7, result.ConfidenceBreakdown.Recency)
	assert.Equal(t, -0.2, result.ConfidenceBreakdown.Relevance)
}

func TestNormalizeEmptyListsStayEmpty(t *testing.T) {
	result, err := Normalize(`{"ranked_papers": [], "claims": [], "confidence_score": 10}`)
	require.NoError(t, err)

	assert.NotNil(t, result.RankedPapers)
	assert.Empty(t, result.RankedPapers)
	assert.NotNil(t, result.Claims)
	assert.Empty(t, result.Claims)
}
