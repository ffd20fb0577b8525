// Package search answers content queries with AI query expansion, falling
// back to plain keyword matching whenever the AI path is unavailable. A
// search never returns an error to the caller.
package search

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	appcfg "github.com/trendscope/core/internal/config"
	"github.com/trendscope/core/internal/modules/content"
	"github.com/trendscope/core/internal/pkg/llm"
)

const expansionMaxTokens = 512

// ExpandedQuery describes how the query was interpreted.
type ExpandedQuery struct {
	Original      string   `json:"original"`
	Synonyms      []string `json:"synonyms"`
	RelatedTopics []string `json:"relatedTopics"`
	Intent        string   `json:"intent"`
}

// Result is the search response payload.
type Result struct {
	Items           []content.Item `json:"items"`
	ExpandedQuery   ExpandedQuery  `json:"expandedQuery"`
	HasExactMatches bool           `json:"hasExactMatches"`
}

// queryAnalysis is the shape the expansion model is asked to produce.
type queryAnalysis struct {
	Intent           string   `json:"intent"`
	Synonyms         []string `json:"synonyms"`
	RelatedTopics    []string `json:"relatedTopics"`
	BroaderConcepts  []string `json:"broaderConcepts"`
	NarrowerConcepts []string `json:"narrowerConcepts"`
}

const expansionSystemPrompt = `You are a semantic search assistant for a tech content discovery platform.
Given a user's search query, analyze it and provide:
1. The user's intent (what they're really looking for)
2. Synonyms and alternative terms for the query
3. Related topics that might interest them
4. Broader and narrower concepts

Always respond in valid JSON format only, no markdown.`

var expansionFenceRe = regexp.MustCompile("```json\n?|\n?```")

type Service struct {
	ai  appcfg.AIConfig
	log *zap.Logger
}

func NewService(ai appcfg.AIConfig, log *zap.Logger) *Service {
	return &Service{ai: ai, log: log.Named("search")}
}

// Search ranks items against the query. Every AI failure degrades to the
// keyword fallback; the method never returns an error.
func (s *Service) Search(ctx context.Context, query string, items []content.Item) Result {
	provider := llm.SelectProvider(s.ai, s.ai.SearchModel)
	if provider == nil {
		return s.basicSearch(query, items)
	}

	analysis, err := s.expandQuery(ctx, provider, query)
	if err != nil {
		s.log.Warn("query expansion failed, using basic search",
			zap.String("query", query), zap.Error(err))
		return s.basicSearch(query, items)
	}

	return s.rank(query, analysis, items)
}

func (s *Service) expandQuery(ctx context.Context, provider *appcfg.AIProvider, query string) (*queryAnalysis, error) {
	prompt := `Analyze this search query: "` + query + `"

Respond with JSON in this exact format:
{
  "intent": "brief description of what the user is looking for",
  "synonyms": ["term1", "term2", "term3"],
  "relatedTopics": ["topic1", "topic2", "topic3"],
  "broaderConcepts": ["concept1", "concept2"],
  "narrowerConcepts": ["concept1", "concept2"]
}`

	text, err := llm.Generate(ctx, provider, expansionSystemPrompt, prompt, expansionMaxTokens)
	if err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(expansionFenceRe.ReplaceAllString(text, ""))
	var analysis queryAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, &llm.ParseError{Raw: cleaned, Err: err}
	}
	return &analysis, nil
}

type scoredItem struct {
	item  content.Item
	score float64
}

// rank scores every item against the expanded term set. Exact-query hits
// carry the heaviest weights; engagement breaks ties.
func (s *Service) rank(query string, analysis *queryAnalysis, items []content.Item) Result {
	queryLower := strings.ToLower(query)

	terms := map[string]struct{}{queryLower: {}}
	for _, group := range [][]string{analysis.Synonyms, analysis.RelatedTopics, analysis.BroaderConcepts, analysis.NarrowerConcepts} {
		for _, t := range group {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				terms[t] = struct{}{}
			}
		}
	}

	scored := make([]scoredItem, 0, len(items))
	hasExactMatches := false
	for _, item := range items {
		titleLower := strings.ToLower(item.Title)
		summaryLower := strings.ToLower(item.Summary)
		tagsLower := lowerAll(item.Tags)

		var score float64
		for term := range terms {
			exact := term == queryLower
			if strings.Contains(titleLower, term) {
				score += weight(exact, 100, 50)
			}
			if strings.Contains(summaryLower, term) {
				score += weight(exact, 40, 20)
			}
			if tagMatch(tagsLower, term) {
				score += weight(exact, 60, 30)
			}
		}
		score += float64(item.EngagementScore) * 0.1

		if strings.Contains(titleLower, queryLower) || strings.Contains(summaryLower, queryLower) {
			hasExactMatches = true
		}
		scored = append(scored, scoredItem{item: item, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	results := make([]content.Item, 0, len(scored))
	for _, sc := range scored {
		if sc.score > 0 {
			results = append(results, sc.item)
		}
	}

	// pad thin result sets with top trending content
	if !hasExactMatches && len(results) < 5 {
		seen := make(map[string]struct{}, len(results))
		for _, item := range results {
			seen[item.ID] = struct{}{}
		}
		for _, item := range topByEngagement(items, 10) {
			if _, ok := seen[item.ID]; !ok {
				results = append(results, item)
			}
		}
	}

	return Result{
		Items: results,
		ExpandedQuery: ExpandedQuery{
			Original:      query,
			Synonyms:      emptyIfNil(analysis.Synonyms),
			RelatedTopics: emptyIfNil(analysis.RelatedTopics),
			Intent:        intentOrDefault(analysis.Intent),
		},
		HasExactMatches: hasExactMatches,
	}
}

// basicSearch is the keyword fallback: substring match on title, summary,
// and tags, else the top trending items.
func (s *Service) basicSearch(query string, items []content.Item) Result {
	queryLower := strings.ToLower(query)

	matched := make([]content.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), queryLower) ||
			strings.Contains(strings.ToLower(item.Summary), queryLower) ||
			anyTagContains(item.Tags, queryLower) {
			matched = append(matched, item)
		}
	}

	results := matched
	if len(results) == 0 {
		results = topByEngagement(items, 15)
	}

	return Result{
		Items: results,
		ExpandedQuery: ExpandedQuery{
			Original:      query,
			Synonyms:      []string{},
			RelatedTopics: []string{},
			Intent:        "Basic search (AI unavailable)",
		},
		HasExactMatches: len(matched) > 0,
	}
}

func weight(exact bool, exactW, relatedW float64) float64 {
	if exact {
		return exactW
	}
	return relatedW
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func tagMatch(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, term) || strings.Contains(term, tag) {
			return true
		}
	}
	return false
}

func anyTagContains(tags []string, queryLower string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), queryLower) {
			return true
		}
	}
	return false
}

func topByEngagement(items []content.Item, n int) []content.Item {
	sorted := make([]content.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EngagementScore > sorted[j].EngagementScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func intentOrDefault(intent string) string {
	if strings.TrimSpace(intent) == "" {
		return "General search"
	}
	return intent
}
