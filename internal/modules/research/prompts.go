package research

import (
	"fmt"
	"strings"
)

const analysisSystemPrompt = `You are ResearchMind, an autonomous academic reasoning engine. Analyze the given research paper by:
1. Ranking the most relevant related papers (Top 5)
2. Extracting structured key claims
3. Comparing cross-paper claims for agreements & contradictions
4. Running devil's advocate reasoning (weak evidence, missing validation, logical gaps)
5. Computing a weighted confidence score based on recency, relevance, and agreement

You MUST respond with a valid JSON object matching this exact schema (no markdown, no code fences):
{
  "ranked_papers": [
    { "title": "string", "author": "string", "relevance_score": 0.0-1.0, "url": "string or null", "published_at": "string or null" }
  ],
  "claims": [
    { "text": "string", "type": "hypothesis|finding|methodology|conclusion", "strength": "strong|moderate|weak" }
  ],
  "supporting_papers": [
    { "title": "string", "relation": "string explaining how it supports" }
  ],
  "conflicting_papers": [
    { "title": "string", "contradiction": "string explaining the contradiction" }
  ],
  "contradictions": [
    { "description": "string", "severity": "high|medium|low" }
  ],
  "evidence_gaps": ["string describing a gap"],
  "devils_advocate": [
    { "challenge": "string", "target_claim": "string" }
  ],
  "confidence_score": 0.0-1.0,
  "confidence_breakdown": {
    "recency": 0.0-1.0,
    "relevance": 0.0-1.0,
    "agreement": 0.0-1.0
  },
  "confidence_explanation": "string explaining the score",
  "confidence_signals": {
    "positive": ["string - strong agreement across papers", "recent publications", etc.],
    "negative": ["string - contradictory claims", "weak evidence", etc.],
    "neutral": ["string - emerging research", "mixed interpretations", etc.]
  },
  "reasoning_summary": "string with overall assessment"
}

For confidence_breakdown:
- recency: How recent are the supporting papers? (1.0 = very recent, 0.0 = outdated)
- relevance: How directly relevant are the related papers? (1.0 = highly relevant)
- agreement: How much do papers agree? (1.0 = strong consensus, 0.0 = heavy contradiction)

For confidence_signals, categorize your reasoning:
- positive: Factors that increase confidence (strong agreement, recent data, consistent findings, robust methodology)
- negative: Factors that decrease confidence (contradictions, weak evidence, limited validation, small samples)
- neutral: Context factors (emerging field, mixed interpretations, context-dependent conclusions)

Always provide at least 2 items in each signal category.`

func buildAnalysisPrompt(paper PaperInput, related []PaperInput) string {
	contexts := make([]string, 0, len(related))
	for i, p := range related {
		published := p.PublishedAt
		if published == "" {
			published = "unknown"
		}
		contexts = append(contexts, fmt.Sprintf(
			"[Paper %d] %q by %s (Published: %s)\nSource: %s\nSummary: %s\nTags: %s",
			i+1, p.Title, p.Author, published, p.Source, p.Summary, strings.Join(p.Tags, ", ")))
	}
	relatedContext := strings.Join(contexts, "\n\n")
	if relatedContext == "" {
		relatedContext = "No related papers available for comparison."
	}

	published := paper.PublishedAt
	if published == "" {
		published = "unknown"
	}

	return fmt.Sprintf(`Analyze this paper and cross-reference with related work:

## Target Paper
Title: %s
Author: %s
Published: %s
Summary: %s
Tags: %s
Source: %s

## Related Papers for Cross-Reference
%s

Perform deep analysis: rank the top 5 most relevant papers, extract key claims, identify supporting/conflicting papers, detect contradictions, find evidence gaps, generate devil's advocate challenges, and compute a confidence score with breakdown. Return ONLY valid JSON.`,
		paper.Title, paper.Author, published, paper.Summary, strings.Join(paper.Tags, ", "), paper.Source, relatedContext)
}
