package jobs

import (
	"context"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/logger"
)

// ExpireStaleRequests rejects pending requests older than the configured
// stale window. It goes through the same conditional status flip as a manual
// decision, so a request approved mid-run is left alone.
func (jr *JobRunner) ExpireStaleRequests() {
	jr.runWithRecovery("ExpireStaleRequests", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, 0, -jr.config.Workflow.StaleRequestDays)

		stale, err := jr.store.Requests().ListPendingOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale requests", "error", err)
			return
		}

		now := time.Now().UTC()
		count := 0
		for _, req := range stale {
			ok, err := jr.store.Requests().FinishIfPending(ctx, req.ID, domain.RequestStatusRejected, now)
			if err != nil {
				logger.Error("Failed to expire request", "request_id", req.ID, "error", err)
				continue
			}
			if ok {
				count++
			}
		}

		logger.Info("Expired stale requests", "count", count, "cutoff", cutoff.Format("2006-01-02"))
	})
}

// PruneProcessedRequests deletes approved and rejected requests past the
// retention window.
func (jr *JobRunner) PruneProcessedRequests() {
	jr.runWithRecovery("PruneProcessedRequests", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, 0, -jr.config.Workflow.ProcessedRetainDays)

		deleted, err := jr.store.Requests().DeleteProcessedBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to prune processed requests", "error", err)
			return
		}

		logger.Info("Pruned processed requests", "count", deleted, "cutoff", cutoff.Format("2006-01-02"))
	})
}
