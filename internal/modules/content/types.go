package content

import (
	"fmt"
	"strings"
	"time"
)

// ContentType classifies an aggregated item.
type ContentType string

const (
	TypeArticle ContentType = "article"
	TypeRepo    ContentType = "repo"
	TypePaper   ContentType = "paper"
	TypeVideo   ContentType = "video"
	TypeTool    ContentType = "tool"
)

// Difficulty buckets an item by assumed audience.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Item is the unified shape every source maps into.
type Item struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	ContentType     ContentType `json:"content_type"`
	Summary         string      `json:"summary"`
	KeyInsights     []string    `json:"key_insights"`
	Tags            []string    `json:"tags"`
	DifficultyLevel Difficulty  `json:"difficulty_level"`
	EstimatedTime   string      `json:"estimated_read_time"`
	EngagementScore int         `json:"engagement_score"`
	Source          string      `json:"source"`
	Author          string      `json:"author"`
	PublishedAt     string      `json:"published_at"`
	URL             string      `json:"url"`
	Image           string      `json:"image,omitempty"`
	Stars           int         `json:"stars,omitempty"`
	Forks           int         `json:"forks,omitempty"`
	Language        string      `json:"language,omitempty"`
	Thumbnail       string      `json:"thumbnail,omitempty"`
	VideoID         string      `json:"video_id,omitempty"`
	ArxivID         string      `json:"arxiv_id,omitempty"`
	ToolCategory    string      `json:"tool_category,omitempty"`
	Pricing         string      `json:"pricing,omitempty"`
}

// ValidType reports whether t names a known content type.
func ValidType(t string) bool {
	switch ContentType(t) {
	case TypeArticle, TypeRepo, TypePaper, TypeVideo, TypeTool:
		return true
	}
	return false
}

func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func dateOnly(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("2006-01-02")
}

func splitDate(iso string) string {
	if iso == "" {
		return dateOnly(time.Now())
	}
	if i := strings.IndexByte(iso, 'T'); i > 0 {
		return iso[:i]
	}
	return iso
}

func difficultyFromText(text string, advanced, beginner []string) Difficulty {
	lower := strings.ToLower(text)
	for _, k := range advanced {
		if strings.Contains(lower, k) {
			return DifficultyAdvanced
		}
	}
	for _, k := range beginner {
		if strings.Contains(lower, k) {
			return DifficultyBeginner
		}
	}
	return DifficultyIntermediate
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
