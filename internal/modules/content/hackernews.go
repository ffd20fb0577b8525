package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

const (
	hnTopStoriesAPI = "https://hacker-news.firebaseio.com/v0/topstories.json"
	hnItemAPI       = "https://hacker-news.firebaseio.com/v0/item/%d.json"
	hnStoryLimit    = 10
)

type hnStory struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
}

func (s *Service) fetchHackerNews(ctx context.Context) ([]Item, error) {
	var ids []int
	if err := s.getJSON(ctx, hnTopStoriesAPI, nil, &ids); err != nil {
		return nil, err
	}
	if len(ids) > hnStoryLimit {
		ids = ids[:hnStoryLimit]
	}

	stories := make([]*hnStory, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			var story hnStory
			if err := s.getJSON(gctx, fmt.Sprintf(hnItemAPI, id), nil, &story); err != nil {
				return nil // a single missing story should not sink the batch
			}
			stories[i] = &story
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(stories))
	for _, story := range stories {
		if story == nil || story.Title == "" || (story.URL == "" && story.Text == "") {
			continue
		}

		author := story.By
		if author == "" {
			author = "anonymous"
		}
		summary := truncate(stripHTML(story.Text), 200)
		if summary == "" {
			summary = fmt.Sprintf("Discussion on Hacker News with %d comments", story.Descendants)
		}
		url := story.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
		}

		items = append(items, Item{
			ID:          fmt.Sprintf("hn-%d", story.ID),
			Title:       story.Title,
			ContentType: TypeArticle,
			Summary:     summary,
			KeyInsights: []string{
				fmt.Sprintf("%d points", story.Score),
				fmt.Sprintf("%d comments", story.Descendants),
				"Posted by " + author,
			},
			Tags:            []string{"Hacker News", "Tech", "Discussion"},
			DifficultyLevel: DifficultyIntermediate,
			EstimatedTime:   "5 min",
			EngagementScore: min(100, story.Score/5+50),
			Source:          "Hacker News",
			Author:          author,
			PublishedAt:     dateOnly(time.Unix(story.Time, 0)),
			URL:             url,
		})
	}
	return items, nil
}

// stripHTML flattens an HTML fragment to its text content.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}
