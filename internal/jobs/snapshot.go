package jobs

import (
	"context"
	"fmt"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/logger"
)

// TakeStatsSnapshot records the nightly aggregate view in the audit log
// and mails it to the operator.
func (jr *JobRunner) TakeStatsSnapshot() {
	jr.runWithRecovery("stats_snapshot", func(ctx context.Context) {
		stats, err := jr.store.Collect(ctx)
		if err != nil {
			logger.Error("Stats collection failed", "error", err)
			return
		}

		detail := fmt.Sprintf("users %d, approved %d, pending subs %d, pending withdrawals %d, balance %s, fees %s",
			stats.TotalUsers, stats.ApprovedSubmissions, stats.PendingSubmissions,
			stats.PendingWithdrawals, stats.TotalBalance.StringFixed(2), stats.FeesCollected.StringFixed(2))

		entry := &domain.AuditEntry{
			Action:  domain.AuditActionStatsSnapshot,
			ActorID: schedulerActorID,
			Detail:  detail,
		}
		if err := jr.store.Append(ctx, entry); err != nil {
			logger.Error("Failed to record stats snapshot", "error", err)
		}

		if err := jr.services.Mailer.SendAdminAlert(ctx, "Nightly stats snapshot", detail); err != nil {
			logger.Warn("Failed to mail stats snapshot", "error", err)
		}

		logger.Info("Stats snapshot taken", "detail", detail)
	})
}
