package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trendscope/core/internal/middleware"
	"github.com/trendscope/core/internal/modules/assistant"
	"github.com/trendscope/core/internal/modules/auth"
	"github.com/trendscope/core/internal/modules/content"
	"github.com/trendscope/core/internal/modules/gateway"
	"github.com/trendscope/core/internal/modules/notify"
	"github.com/trendscope/core/internal/modules/research"
	"github.com/trendscope/core/internal/modules/saved"
	"github.com/trendscope/core/internal/modules/search"
	pkgredis "github.com/trendscope/core/internal/pkg/redis"
	"github.com/trendscope/core/internal/pkg/response"
	"github.com/trendscope/core/internal/pkg/s3store"
	"github.com/trendscope/core/internal/pkg/taskqueue"
)

const apiPrefix = "/api/v2"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	logger := a.logger
	cfg := a.cfg
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    "trendscope-core",
			"version": "1.0.0",
		})
	})

	r.Use(middleware.RateLimit(rc.Raw()))

	// Shared services
	taskSvc := taskqueue.NewService(rc)
	a.contentSvc = content.NewService(cfg, rc, logger)

	assistantSvc := assistant.NewService(cfg, logger)
	searchSvc := search.NewService(cfg.AI, logger)

	researchSvc := research.NewService(cfg, db, logger)
	videoLookup := research.NewVideoLookup(cfg.Sources.YouTubeAPIKey, logger)

	archive, err := s3store.New(cfg.ReportArchive)
	if err != nil {
		logger.Warn("report archive disabled", zap.Error(err))
		archive = nil
	}
	reports := research.NewReportRenderer(archive, logger)
	sessions := research.NewManager(cfg.Research.StageInterval, researchSvc, videoLookup, a.hub, logger)
	taskRunner := research.NewTaskRunner(researchSvc, taskSvc)

	savedSvc := saved.NewService(db)
	notifySvc := notify.NewService(db, a.hub)
	authSvc := auth.NewService(db)

	// Realtime gateway (socket.io + stats)
	root := r.Group("")
	gateway.RegisterRoutes(root, a.hub)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth())

	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)
	content.NewHandler(a.contentSvc).RegisterRoutes(api, authMW)
	search.NewHandler(searchSvc, a.contentSvc).RegisterRoutes(api, authMW)
	assistant.NewHandler(assistantSvc, logger).RegisterRoutes(api, authMW)
	research.NewHandler(researchSvc, sessions, videoLookup, reports, taskRunner).RegisterRoutes(api, authMW)
	saved.NewHandler(savedSvc).RegisterRoutes(api, authMW)
	notify.NewHandler(notifySvc).RegisterRoutes(api, authMW)
}
