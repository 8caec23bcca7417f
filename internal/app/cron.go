package app

import (
	"context"
	"fmt"
	"time"

	"github.com/impactflow/core/internal/models"
	pkgcron "github.com/impactflow/core/internal/pkg/cron"
	"github.com/impactflow/core/internal/store"
	"go.uber.org/zap"
)

// registerCronJobs registers the scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, st *store.Store, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "refresh_campaign_status",
		Description: "mark past-deadline active campaigns as completed",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			now := time.Now()
			updated := 0
			for _, c := range st.Campaigns() {
				if c.Status != models.CampaignActive && c.Status != models.CampaignUrgent {
					continue
				}
				if c.Deadline.IsZero() || c.Deadline.After(now) {
					continue
				}
				c.Status = models.CampaignCompleted
				if _, err := st.UpdateCampaign(ctx, c); err != nil {
					cronLogger.Warn("campaign status refresh failed",
						zap.String("campaign", c.ID), zap.Error(err))
					continue
				}
				updated++
			}
			if updated > 0 {
				cronLogger.Info(fmt.Sprintf("campaign status refresh done, %d completed", updated))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "resync_state",
		Description: "reconcile the in-memory mirror against the remote store",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			st.Resync(ctx)
			return nil
		},
	})
}
