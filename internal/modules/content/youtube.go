package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	youtubeSearchAPI  = "https://www.googleapis.com/youtube/v3/search"
	youtubeVideosAPI  = "https://www.googleapis.com/youtube/v3/videos"
	defaultVideoQuery = "artificial intelligence tutorial"
	videoLimit        = 15
)

var errYouTubeNotConfigured = errors.New("youtube api key not configured")

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet youtubeSnippet `json:"snippet"`
	} `json:"items"`
}

type youtubeSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   struct {
		High    youtubeThumb `json:"high"`
		Medium  youtubeThumb `json:"medium"`
		Default youtubeThumb `json:"default"`
	} `json:"thumbnails"`
}

type youtubeThumb struct {
	URL string `json:"url"`
}

type youtubeStatsResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videoStats struct {
	views    int
	likes    int
	duration string
}

func (s *Service) fetchVideos(ctx context.Context, query string) ([]Item, error) {
	if s.youtubeKey == "" {
		return nil, errYouTubeNotConfigured
	}
	if strings.TrimSpace(query) == "" {
		query = defaultVideoQuery
	}

	searchURL := fmt.Sprintf("%s?part=snippet&q=%s&type=video&maxResults=%d&order=relevance&key=%s",
		youtubeSearchAPI, url.QueryEscape(query), videoLimit, s.youtubeKey)

	var search youtubeSearchResponse
	if err := s.getYouTube(ctx, searchURL, &search); err != nil {
		if errors.Is(err, errQuotaExceeded) {
			// Serve a curated set so the video feed stays populated.
			return curatedVideos(), nil
		}
		return nil, err
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	stats := make(map[string]videoStats, len(ids))
	if len(ids) > 0 {
		statsURL := fmt.Sprintf("%s?part=statistics,contentDetails&id=%s&key=%s",
			youtubeVideosAPI, strings.Join(ids, ","), s.youtubeKey)
		var statsResp youtubeStatsResponse
		if err := s.getYouTube(ctx, statsURL, &statsResp); err == nil {
			for _, item := range statsResp.Items {
				views, _ := strconv.Atoi(item.Statistics.ViewCount)
				likes, _ := strconv.Atoi(item.Statistics.LikeCount)
				stats[item.ID] = videoStats{views: views, likes: likes, duration: item.ContentDetails.Duration}
			}
		}
	}

	items := make([]Item, 0, len(search.Items))
	for _, result := range search.Items {
		videoID := result.ID.VideoID
		if videoID == "" {
			continue
		}
		snippet := result.Snippet
		st := stats[videoID]

		summary := truncate(snippet.Description, 300)
		if summary == "" {
			summary = "No description available"
		}
		thumb := snippet.Thumbnails.High.URL
		if thumb == "" {
			thumb = snippet.Thumbnails.Medium.URL
		}
		if thumb == "" {
			thumb = snippet.Thumbnails.Default.URL
		}

		items = append(items, Item{
			ID:          "yt-" + videoID,
			Title:       snippet.Title,
			ContentType: TypeVideo,
			Summary:     summary,
			KeyInsights: []string{
				formatCount(st.views) + " views",
				formatCount(st.likes) + " likes",
				"By " + snippet.ChannelTitle,
			},
			Tags:            videoTags(snippet.Title, snippet.Description),
			DifficultyLevel: videoDifficulty(snippet.Title, snippet.Description),
			EstimatedTime:   parseISODuration(st.duration),
			EngagementScore: videoEngagement(st),
			Source:          "YouTube",
			Author:          snippet.ChannelTitle,
			PublishedAt:     splitDate(snippet.PublishedAt),
			URL:             "https://www.youtube.com/watch?v=" + videoID,
			Thumbnail:       thumb,
			VideoID:         videoID,
		})
	}
	return items, nil
}

var errQuotaExceeded = errors.New("youtube quota exceeded")

func (s *Service) getYouTube(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusForbidden && strings.Contains(string(body), "quotaExceeded") {
			return errQuotaExceeded
		}
		return fmt.Errorf("youtube api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var videoKeywords = []string{
	"AI", "Machine Learning", "Deep Learning", "Tutorial", "Python",
	"TensorFlow", "PyTorch", "GPT", "LLM", "Neural Network",
}

func videoTags(title, description string) []string {
	content := strings.ToLower(title + " " + description)
	tags := make([]string, 0, 5)
	for _, k := range videoKeywords {
		if strings.Contains(content, strings.ToLower(k)) {
			tags = append(tags, k)
			if len(tags) == 5 {
				break
			}
		}
	}
	return tags
}

func videoDifficulty(title, description string) Difficulty {
	content := strings.ToLower(title + " " + description)
	for _, k := range []string{"beginner", "introduction", "basics", "getting started"} {
		if strings.Contains(content, k) {
			return DifficultyBeginner
		}
	}
	for _, k := range []string{"advanced", "deep dive", "research", "architecture"} {
		if strings.Contains(content, k) {
			return DifficultyAdvanced
		}
	}
	return DifficultyIntermediate
}

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseISODuration converts an ISO 8601 duration (PT1H2M3S) to "N min".
func parseISODuration(duration string) string {
	if duration == "" {
		return "10 min"
	}
	m := isoDurationRe.FindStringSubmatch(duration)
	if m == nil {
		return "10 min"
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	total := hours*60 + minutes + (seconds+59)/60
	return fmt.Sprintf("%d min", total)
}

func videoEngagement(st videoStats) int {
	viewScore := math.Min(50, math.Log10(float64(st.views)+1)*10)
	likeRatio := 0.0
	if st.views > 0 {
		likeRatio = float64(st.likes) / float64(st.views) * 100
	}
	likeScore := math.Min(50, likeRatio*10)
	return int(viewScore + likeScore)
}

// curatedVideos is the offline set served when the YouTube quota runs out.
func curatedVideos() []Item {
	today := dateOnly(time.Now())
	entries := []struct {
		videoID    string
		title      string
		summary    string
		insights   []string
		tags       []string
		difficulty Difficulty
		duration   string
		score      int
		author     string
	}{
		{
			videoID:    "i_LwzRVP7bg",
			title:      "Machine Learning for Everybody – Full Course",
			summary:    "A comprehensive introduction to machine learning concepts for beginners. Learn the fundamentals of ML algorithms, data preprocessing, and model evaluation in this complete course.",
			insights:   []string{"Beginner friendly", "Complete course", "Hands-on examples"},
			tags:       []string{"Machine Learning", "AI", "Tutorial", "Beginner"},
			difficulty: DifficultyBeginner,
			duration:   "240 min",
			score:      95,
			author:     "freeCodeCamp",
		},
		{
			videoID:    "aircAruvnKk",
			title:      "But what is a Neural Network? | Deep Learning Chapter 1",
			summary:    "An intuitive visual introduction to neural networks. Understand how neural networks learn patterns from data through beautiful animations and clear explanations.",
			insights:   []string{"Visual explanations", "Neural network basics", "Mathematical intuition"},
			tags:       []string{"Deep Learning", "Neural Networks", "AI"},
			difficulty: DifficultyIntermediate,
			duration:   "19 min",
			score:      98,
			author:     "3Blue1Brown",
		},
		{
			videoID:    "zjkBMFhNj_g",
			title:      "Intro to Large Language Models",
			summary:    "Andrej Karpathy explains the fundamentals of large language models like GPT. Learn about transformers, training, and the future of AI from a leading expert.",
			insights:   []string{"LLM fundamentals", "Transformer architecture", "Expert insights"},
			tags:       []string{"GPT", "LLM", "Transformers", "NLP"},
			difficulty: DifficultyIntermediate,
			duration:   "60 min",
			score:      96,
			author:     "Andrej Karpathy",
		},
		{
			videoID:    "kCc8FmEb1nY",
			title:      "Let's build GPT: from scratch, in code, spelled out",
			summary:    "Build a GPT language model from scratch with Andrej Karpathy. Understand every component of transformers through hands-on implementation.",
			insights:   []string{"Build GPT from scratch", "Code walkthrough", "Deep understanding"},
			tags:       []string{"GPT", "Transformers", "Coding", "Advanced"},
			difficulty: DifficultyAdvanced,
			duration:   "120 min",
			score:      97,
			author:     "Andrej Karpathy",
		},
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{
			ID:              "yt-" + e.videoID,
			Title:           e.title,
			ContentType:     TypeVideo,
			Summary:         e.summary,
			KeyInsights:     e.insights,
			Tags:            e.tags,
			DifficultyLevel: e.difficulty,
			EstimatedTime:   e.duration,
			EngagementScore: e.score,
			Source:          "YouTube",
			Author:          e.author,
			PublishedAt:     today,
			URL:             "https://www.youtube.com/watch?v=" + e.videoID,
			Thumbnail:       fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", e.videoID),
			VideoID:         e.videoID,
		})
	}
	return items
}
