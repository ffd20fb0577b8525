package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const videoSearchAPI = "https://www.googleapis.com/youtube/v3/search"

// VideoLookup finds an explanation video for a paper. It runs alongside
// the primary analysis and its outcome never influences the pipeline.
type VideoLookup struct {
	apiKey string
	http   *http.Client
	log    *zap.Logger
}

func NewVideoLookup(apiKey string, log *zap.Logger) *VideoLookup {
	return &VideoLookup{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
		log:    log.Named("video-lookup"),
	}
}

// Search returns the best matching video, or nil when the key is missing,
// the API fails, or nothing matches. It never returns an error to callers.
func (v *VideoLookup) Search(ctx context.Context, query string) *Video {
	if v.apiKey == "" || query == "" {
		return nil
	}

	searchQuery := query + " research explanation"
	searchURL := fmt.Sprintf("%s?part=snippet&q=%s&type=video&maxResults=3&relevanceLanguage=en&key=%s",
		videoSearchAPI, url.QueryEscape(searchQuery), v.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil
	}
	resp, err := v.http.Do(req)
	if err != nil {
		v.log.Debug("youtube lookup failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		v.log.Debug("youtube lookup rejected", zap.Int("status", resp.StatusCode))
		return nil
	}

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Thumbnails   struct {
					Medium  struct{ URL string } `json:"medium"`
					Default struct{ URL string } `json:"default"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		v.log.Debug("youtube lookup parse failed", zap.Error(err))
		return nil
	}

	for _, item := range payload.Items {
		if item.ID.VideoID == "" {
			continue
		}
		thumb := item.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}
		return &Video{
			VideoID:   item.ID.VideoID,
			Title:     item.Snippet.Title,
			Channel:   item.Snippet.ChannelTitle,
			Thumbnail: thumb,
		}
	}
	return nil
}
