package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnalysisPromptIncludesRelatedPapers(t *testing.T) {
	paper := PaperInput{Title: "Sparse Attention at Scale", Author: "Chen", Summary: "Sub-quadratic attention.", Tags: []string{"transformers"}, Source: "arxiv"}
	related := []PaperInput{
		{Title: "Linear Attention Revisited", Author: "Kumar", Summary: "Kernel feature maps.", Source: "arxiv", PublishedAt: "2025-04-01"},
	}

	prompt := buildAnalysisPrompt(paper, related)

	assert.Contains(t, prompt, "Sparse Attention at Scale")
	assert.Contains(t, prompt, `[Paper 1] "Linear Attention Revisited" by Kumar`)
	assert.Contains(t, prompt, "Published: 2025-04-01")
	assert.NotContains(t, prompt, "%!s(MISSING)")
	assert.True(t, strings.HasSuffix(prompt, "Return ONLY valid JSON."))
}

func TestBuildAnalysisPromptWithoutRelatedPapers(t *testing.T) {
	prompt := buildAnalysisPrompt(PaperInput{Title: "Solo Paper"}, nil)

	assert.Contains(t, prompt, "No related papers available for comparison.")
	assert.Contains(t, prompt, "Published: unknown")
	assert.NotContains(t, prompt, "%!s(MISSING)")
}
