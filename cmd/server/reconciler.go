package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"coursebatch/internal/enrollment/service"
)

const reconcileTimeout = 10 * time.Minute

// startReconciler runs ReconcileAll on the given cron schedule. An empty
// schedule disables it. Overlapping runs are skipped.
func startReconciler(schedule string, svc *service.Service, log *slog.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		reports, err := svc.ReconcileAll(ctx)
		if err != nil {
			log.ErrorContext(ctx, "participant reconciliation finished with errors", "error", err)
		}
		log.InfoContext(ctx, "participant reconciliation finished", "batches_changed", len(reports))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info("participant reconciliation scheduled", "schedule", schedule)
	return c, nil
}
