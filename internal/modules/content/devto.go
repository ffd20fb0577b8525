package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const devtoAPI = "https://dev.to/api/articles?tag=ai&per_page=10"

type devtoArticle struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	TagList        []string `json:"tag_list"`
	ReadingMinutes int      `json:"reading_time_minutes"`
	Reactions      int      `json:"public_reactions_count"`
	PublishedAt    string   `json:"published_at"`
	URL            string   `json:"url"`
	CoverImage     string   `json:"cover_image"`
	SocialImage    string   `json:"social_image"`
	User           struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
}

var (
	articleAdvancedKeywords = []string{"advanced", "deep-learning", "neural-network", "transformer", "research"}
	articleBeginnerKeywords = []string{"beginner", "tutorial", "introduction", "getting-started", "basics"}
)

func (s *Service) fetchDevTo(ctx context.Context) ([]Item, error) {
	var articles []devtoArticle
	if err := s.getJSON(ctx, devtoAPI, nil, &articles); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(articles))
	for _, a := range articles {
		insights := make([]string, 0, 3)
		for _, tag := range a.TagList {
			if len(insights) == 3 {
				break
			}
			insights = append(insights, "Tagged with "+tag)
		}
		minutes := a.ReadingMinutes
		if minutes == 0 {
			minutes = 5
		}
		author := a.User.Name
		if author == "" {
			author = a.User.Username
		}
		if author == "" {
			author = "Unknown"
		}
		summary := a.Description
		if summary == "" {
			summary = "No description available"
		}
		image := a.CoverImage
		if image == "" {
			image = a.SocialImage
		}

		items = append(items, Item{
			ID:              fmt.Sprintf("devto-%d", a.ID),
			Title:           a.Title,
			ContentType:     TypeArticle,
			Summary:         summary,
			KeyInsights:     insights,
			Tags:            a.TagList,
			DifficultyLevel: difficultyFromTags(a.TagList),
			EstimatedTime:   fmt.Sprintf("%d min", minutes),
			EngagementScore: min(100, a.Reactions/10+50),
			Source:          "Dev.to",
			Author:          author,
			PublishedAt:     splitDate(a.PublishedAt),
			URL:             a.URL,
			Image:           image,
		})
	}
	return items, nil
}

func difficultyFromTags(tags []string) Difficulty {
	joined := ""
	for _, t := range tags {
		joined += " " + t
	}
	return difficultyFromText(joined, articleAdvancedKeywords, articleBeginnerKeywords)
}

// getJSON issues a GET request with optional headers and decodes the JSON body.
func (s *Service) getJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
