package content

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

func (s *Service) fetchTools(ctx context.Context) ([]Item, error) {
	githubTools, err := s.fetchGitHubTools(ctx)
	if err != nil {
		s.log.Warn("github tools fetch failed", zap.Error(err))
		githubTools = nil
	}

	seen := make(map[string]struct{})
	all := make([]Item, 0, len(githubTools)+5)
	for _, tool := range append(curatedTools(), githubTools...) {
		if _, ok := seen[tool.ID]; ok {
			continue
		}
		seen[tool.ID] = struct{}{}
		all = append(all, tool)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].EngagementScore > all[j].EngagementScore
	})
	return all, nil
}

// curatedTools supplements the GitHub search with well-known hosted tools
// that never show up in repository queries.
func curatedTools() []Item {
	today := dateOnly(time.Now())
	return []Item{
		{
			ID:              "tool-curated-cursor",
			Title:           "Cursor",
			ContentType:     TypeTool,
			Summary:         "AI-first code editor built on VS Code. Uses GPT-4 and Claude to help you write, edit, and debug code faster with natural language instructions.",
			KeyInsights:     []string{"AI-powered code generation & editing", "Chat with your codebase", "Multi-file editing in one prompt"},
			Tags:            []string{"Code Editor", "AI Coding", "Dev Tool", "Productivity"},
			DifficultyLevel: DifficultyBeginner,
			EstimatedTime:   "3 min",
			EngagementScore: 97,
			Source:          "cursor.com",
			Author:          "Cursor Inc.",
			PublishedAt:     today,
			URL:             "https://cursor.com",
			ToolCategory:    "Dev Tool",
			Pricing:         "Freemium",
		},
		{
			ID:              "tool-curated-v0",
			Title:           "v0 by Vercel",
			ContentType:     TypeTool,
			Summary:         "AI-powered UI generation tool that creates React components from text descriptions. Generates production-ready code using shadcn/ui and Tailwind CSS.",
			KeyInsights:     []string{"Text-to-UI generation", "Exports clean React + Tailwind code", "Iterative refinement via chat"},
			Tags:            []string{"UI Generation", "React", "AI Coding", "Frontend"},
			DifficultyLevel: DifficultyBeginner,
			EstimatedTime:   "3 min",
			EngagementScore: 94,
			Source:          "v0.dev",
			Author:          "Vercel",
			PublishedAt:     today,
			URL:             "https://v0.dev",
			ToolCategory:    "Dev Tool",
			Pricing:         "Freemium",
		},
		{
			ID:              "tool-curated-huggingface",
			Title:           "Hugging Face Hub",
			ContentType:     TypeTool,
			Summary:         "The platform for sharing and discovering ML models, datasets, and demos. Home to 500K+ models and 100K+ datasets with one-line inference APIs.",
			KeyInsights:     []string{"500K+ pre-trained models", "One-line inference API", "Free model hosting & Spaces"},
			Tags:            []string{"Model Hub", "ML Platform", "Open Source", "Inference"},
			DifficultyLevel: DifficultyIntermediate,
			EstimatedTime:   "5 min",
			EngagementScore: 98,
			Source:          "huggingface.co",
			Author:          "Hugging Face",
			PublishedAt:     today,
			URL:             "https://huggingface.co",
			ToolCategory:    "ML Platform",
			Pricing:         "Freemium",
		},
		{
			ID:              "tool-curated-replicate",
			Title:           "Replicate",
			ContentType:     TypeTool,
			Summary:         "Run open-source AI models in the cloud with a single API call. Supports image generation, LLMs, audio, and video models with auto-scaling infrastructure.",
			KeyInsights:     []string{"Pay-per-use pricing", "One API call to run any model", "Supports custom model deployment"},
			Tags:            []string{"Model Hosting", "API", "Cloud AI", "Inference"},
			DifficultyLevel: DifficultyIntermediate,
			EstimatedTime:   "4 min",
			EngagementScore: 91,
			Source:          "replicate.com",
			Author:          "Replicate",
			PublishedAt:     today,
			URL:             "https://replicate.com",
			ToolCategory:    "MLOps",
			Pricing:         "Pay-per-use",
		},
		{
			ID:              "tool-curated-perplexity",
			Title:           "Perplexity AI",
			ContentType:     TypeTool,
			Summary:         "AI-powered search engine that provides direct answers with citations. Combines real-time web search with LLM reasoning for accurate, sourced responses.",
			KeyInsights:     []string{"Real-time web search + AI", "Source citations for every answer", "Pro Search for deep research"},
			Tags:            []string{"AI Search", "Research", "Productivity", "LLM"},
			DifficultyLevel: DifficultyBeginner,
			EstimatedTime:   "3 min",
			EngagementScore: 95,
			Source:          "perplexity.ai",
			Author:          "Perplexity AI",
			PublishedAt:     today,
			URL:             "https://perplexity.ai",
			ToolCategory:    "AI Search",
			Pricing:         "Freemium",
		},
	}
}
