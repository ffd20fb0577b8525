package content

import (
	"context"
	"net/http"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appcfg "github.com/trendscope/core/internal/config"
	redisc "github.com/trendscope/core/internal/pkg/redis"
)

const redisCachePrefix = "ts:content:"

// Service aggregates external content sources behind a two-level cache:
// an in-process cache for hot reads and Redis so replicas share fetches.
type Service struct {
	cfg         appcfg.ContentConfig
	youtubeKey  string
	githubToken string
	cache       *gocache.Cache
	rc          *redisc.Client
	http        *http.Client
	log         *zap.Logger
}

func NewService(cfg *appcfg.AppConfig, rc *redisc.Client, log *zap.Logger) *Service {
	return &Service{
		cfg:         cfg.Content,
		youtubeKey:  cfg.Sources.YouTubeAPIKey,
		githubToken: cfg.Sources.GitHubToken,
		cache:       gocache.New(cfg.Content.CacheTTL, 2*cfg.Content.CacheTTL),
		rc:          rc,
		http:        &http.Client{Timeout: 20 * time.Second},
		log:         log.Named("content"),
	}
}

// Articles returns Dev.to and Hacker News articles merged by engagement.
func (s *Service) Articles(ctx context.Context) ([]Item, error) {
	return s.cached(ctx, "articles", func(ctx context.Context) ([]Item, error) {
		var devto, hn []Item
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			items, err := s.fetchDevTo(gctx)
			if err != nil {
				s.log.Warn("dev.to fetch failed", zap.Error(err))
				return nil
			}
			devto = items
			return nil
		})
		g.Go(func() error {
			items, err := s.fetchHackerNews(gctx)
			if err != nil {
				s.log.Warn("hacker news fetch failed", zap.Error(err))
				return nil
			}
			hn = items
			return nil
		})
		_ = g.Wait()

		merged := append(devto, hn...)
		sortByEngagement(merged)
		return merged, nil
	})
}

// Repos returns GitHub repositories matching query.
func (s *Service) Repos(ctx context.Context, query string) ([]Item, error) {
	return s.cached(ctx, "repos:"+query, func(ctx context.Context) ([]Item, error) {
		return s.fetchRepos(ctx, query)
	})
}

// Papers returns recent arXiv submissions in category.
func (s *Service) Papers(ctx context.Context, category string) ([]Item, error) {
	return s.cached(ctx, "papers:"+category, func(ctx context.Context) ([]Item, error) {
		return s.fetchPapers(ctx, category)
	})
}

// Videos returns YouTube search results for query.
func (s *Service) Videos(ctx context.Context, query string) ([]Item, error) {
	return s.cached(ctx, "videos:"+query, func(ctx context.Context) ([]Item, error) {
		return s.fetchVideos(ctx, query)
	})
}

// Tools returns the curated and GitHub-sourced tool list.
func (s *Service) Tools(ctx context.Context) ([]Item, error) {
	return s.cached(ctx, "tools", s.fetchTools)
}

// ByType dispatches to the fetcher for a single content type.
func (s *Service) ByType(ctx context.Context, t ContentType) ([]Item, error) {
	switch t {
	case TypeArticle:
		return s.Articles(ctx)
	case TypeRepo:
		return s.Repos(ctx, "")
	case TypePaper:
		return s.Papers(ctx, "")
	case TypeVideo:
		return s.Videos(ctx, "")
	case TypeTool:
		return s.Tools(ctx)
	}
	return []Item{}, nil
}

// All fetches every source concurrently and merges by engagement. Failed
// sources contribute nothing rather than failing the whole feed.
func (s *Service) All(ctx context.Context) ([]Item, error) {
	results := make([][]Item, 5)
	fetchers := []func(context.Context) ([]Item, error){
		s.Articles,
		func(ctx context.Context) ([]Item, error) { return s.Repos(ctx, "") },
		func(ctx context.Context) ([]Item, error) { return s.Papers(ctx, "") },
		func(ctx context.Context) ([]Item, error) { return s.Videos(ctx, "") },
		s.Tools,
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, fetch := range fetchers {
		g.Go(func() error {
			items, err := fetch(gctx)
			if err != nil {
				s.log.Warn("source fetch failed", zap.Int("source", i), zap.Error(err))
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var merged []Item
	for _, items := range results {
		merged = append(merged, items...)
	}
	sortByEngagement(merged)
	return merged, nil
}

// RefreshInterval is how often the scheduler should rewarm the caches.
func (s *Service) RefreshInterval() time.Duration {
	return s.cfg.RefreshInterval
}

// Refresh warms every default cache entry. Used by the scheduler.
func (s *Service) Refresh(ctx context.Context) error {
	s.cache.Flush()
	_, err := s.All(ctx)
	return err
}

func (s *Service) cached(ctx context.Context, key string, fetch func(context.Context) ([]Item, error)) ([]Item, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]Item), nil
	}

	redisKey := redisCachePrefix + key
	if s.rc != nil {
		var items []Item
		if hit, err := s.rc.GetJSON(ctx, redisKey, &items); err == nil && hit {
			s.cache.Set(key, items, gocache.DefaultExpiration)
			return items, nil
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}

	s.cache.Set(key, items, gocache.DefaultExpiration)
	if s.rc != nil {
		if err := s.rc.SetJSON(ctx, redisKey, items, s.cfg.CacheTTL); err != nil {
			s.log.Debug("redis cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

func sortByEngagement(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EngagementScore > items[j].EngagementScore
	})
}
