package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/trendscope/core/internal/modules/content"
	pkgcron "github.com/trendscope/core/internal/pkg/cron"
)

// registerCronJobs registers the scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, contentSvc *content.Service, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "refresh_content",
		Description: "refresh the aggregated content feeds",
		Interval:    contentSvc.RefreshInterval(),
		RunOnStart:  true,
		Fn: func(ctx context.Context) error {
			if err := contentSvc.Refresh(ctx); err != nil {
				cronLogger.Warn("content refresh failed", zap.Error(err))
				return err
			}
			cronLogger.Info("content refreshed")
			return nil
		},
	})
}
