package content

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
)

const (
	githubSearchAPI   = "https://api.github.com/search/repositories"
	defaultRepoQuery  = "artificial intelligence machine learning"
	githubUserAgent   = "TrendScope-AI"
	repoResultLimit   = 15
	toolResultLimit   = 12
	toolMinStars      = 500
)

type githubRepo struct {
	ID          int      `json:"id"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
	Language    string   `json:"language"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Size        int      `json:"size"`
	HTMLURL     string   `json:"html_url"`
	CreatedAt   string   `json:"created_at"`
	PushedAt    string   `json:"pushed_at"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
	License *struct {
		Name   string `json:"name"`
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

type githubSearchResult struct {
	Items []githubRepo `json:"items"`
}

var (
	repoAdvancedKeywords = []string{"research", "neural", "deep-learning", "transformer", "llm", "gpt"}
	repoBeginnerKeywords = []string{"tutorial", "beginner", "example", "starter", "template", "boilerplate"}
	toolAdvancedKeywords = []string{"advanced", "enterprise", "infrastructure", "orchestration", "distributed"}
	toolBeginnerKeywords = []string{"easy", "simple", "beginner", "no-code", "drag-and-drop", "getting started"}
)

func (s *Service) githubHeaders() map[string]string {
	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": githubUserAgent,
	}
	if s.githubToken != "" {
		headers["Authorization"] = "Bearer " + s.githubToken
	}
	return headers
}

func (s *Service) fetchRepos(ctx context.Context, query string) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		query = defaultRepoQuery
	}
	searchURL := fmt.Sprintf("%s?q=%s&sort=stars&order=desc&per_page=%d",
		githubSearchAPI, url.QueryEscape(query), repoResultLimit)

	var result githubSearchResult
	if err := s.getJSON(ctx, searchURL, s.githubHeaders(), &result); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(result.Items))
	for _, repo := range result.Items {
		summary := repo.Description
		if summary == "" {
			summary = "No description available"
		}
		license := "No license specified"
		if repo.License != nil && repo.License.Name != "" {
			license = repo.License.Name
		}
		tags := repo.Topics
		if len(tags) > 5 {
			tags = tags[:5]
		}
		if len(tags) == 0 && repo.Language != "" {
			tags = []string{repo.Language}
		}
		language := repo.Language
		if language == "" {
			language = "Unknown"
		}

		items = append(items, Item{
			ID:          fmt.Sprintf("gh-%d", repo.ID),
			Title:       repo.FullName,
			ContentType: TypeRepo,
			Summary:     summary,
			KeyInsights: []string{
				formatCount(repo.Stars) + " stars",
				formatCount(repo.Forks) + " forks",
				license,
			},
			Tags:            tags,
			DifficultyLevel: repoDifficulty(repo),
			EstimatedTime:   fmt.Sprintf("%d min", (repo.Size+99)/100),
			EngagementScore: min(100, int(math.Log10(float64(repo.Stars+1))*20)),
			Source:          "GitHub",
			Author:          ownerOrUnknown(repo),
			PublishedAt:     splitDate(repo.CreatedAt),
			URL:             repo.HTMLURL,
			Stars:           repo.Stars,
			Forks:           repo.Forks,
			Language:        language,
		})
	}
	return items, nil
}

var toolQueries = []string{
	"ai tool framework",
	"llm developer tool",
	"machine learning toolkit",
}

func (s *Service) fetchGitHubTools(ctx context.Context) ([]Item, error) {
	query := toolQueries[rand.Intn(len(toolQueries))]
	searchURL := fmt.Sprintf("%s?q=%s+stars:>%d&sort=stars&order=desc&per_page=%d",
		githubSearchAPI, url.QueryEscape(query), toolMinStars, toolResultLimit)

	var result githubSearchResult
	if err := s.getJSON(ctx, searchURL, s.githubHeaders(), &result); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(result.Items))
	for _, repo := range result.Items {
		category := categorizeTool(repo.Topics, repo.Description)
		summary := repo.Description
		if summary == "" {
			summary = "An AI/developer tool hosted on GitHub."
		}
		license := "Open source tool"
		if repo.License != nil && repo.License.SPDXID != "" {
			license = "License: " + repo.License.SPDXID
		}
		tags := repo.Topics
		if len(tags) > 4 {
			tags = tags[:4]
		}
		published := repo.PushedAt
		if published == "" {
			published = repo.CreatedAt
		}

		items = append(items, Item{
			ID:          fmt.Sprintf("tool-gh-%d", repo.ID),
			Title:       repo.FullName,
			ContentType: TypeTool,
			Summary:     summary,
			KeyInsights: []string{
				formatCount(repo.Stars) + " stars on GitHub",
				"Category: " + category,
				license,
			},
			Tags:            append(append([]string{}, tags...), category),
			DifficultyLevel: difficultyFromText(repo.Description, toolAdvancedKeywords, toolBeginnerKeywords),
			EstimatedTime:   "5 min",
			EngagementScore: min(100, int(math.Log10(float64(max(repo.Stars, 1)))*20)+30),
			Source:          "GitHub",
			Author:          ownerOrUnknown(repo),
			PublishedAt:     splitDate(published),
			URL:             repo.HTMLURL,
			Stars:           repo.Stars,
			Forks:           repo.Forks,
			Language:        repo.Language,
			ToolCategory:    category,
			Pricing:         "Open Source",
		})
	}
	return items, nil
}

func ownerOrUnknown(repo githubRepo) string {
	if repo.Owner.Login != "" {
		return repo.Owner.Login
	}
	return "Unknown"
}

func repoDifficulty(repo githubRepo) Difficulty {
	text := strings.Join(repo.Topics, " ") + " " + repo.Description
	return difficultyFromText(text, repoAdvancedKeywords, repoBeginnerKeywords)
}

var toolCategoryRules = []struct {
	pattern  *regexp.Regexp
	category string
}{
	{regexp.MustCompile(`llm|language.model|gpt|chat|completion`), "LLM Framework"},
	{regexp.MustCompile(`agent|autonomous|tool.use`), "AI Agent"},
	{regexp.MustCompile(`vector|embedding|search|rag|retrieval`), "Vector & RAG"},
	{regexp.MustCompile(`image|vision|diffusion|stable`), "Image AI"},
	{regexp.MustCompile(`audio|speech|voice|tts|stt`), "Audio AI"},
	{regexp.MustCompile(`code|copilot|ide|developer`), "Dev Tool"},
	{regexp.MustCompile(`deploy|serve|inference|mlops`), "MLOps"},
	{regexp.MustCompile(`data|dataset|label|annotation`), "Data Tool"},
	{regexp.MustCompile(`monitor|observ|eval|benchmark`), "Evaluation"},
	{regexp.MustCompile(`fine.tun|train|lora`), "Training"},
}

func categorizeTool(topics []string, description string) string {
	text := strings.ToLower(strings.Join(topics, " ") + " " + description)
	for _, rule := range toolCategoryRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return "AI Tool"
}
