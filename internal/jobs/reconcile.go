package jobs

import (
	"context"

	"earnx-backend/internal/logger"
)

// The scheduler acts as the system operator in the audit trail.
const schedulerActorID int64 = 0

// ReconcileBalances recomputes every balance from the event log and alerts
// on drift. Drifted balances are reported, never auto-corrected.
func (jr *JobRunner) ReconcileBalances() {
	jr.runWithRecovery("reconcile_balances", func(ctx context.Context) {
		drifts, err := jr.services.Admin.ReconcileBalances(ctx, schedulerActorID)
		if err != nil {
			logger.Error("Reconciliation failed", "error", err)
			return
		}
		for _, d := range drifts {
			logger.Warn("Balance drift",
				"user_id", d.UserID,
				"stored", d.Stored.StringFixed(2),
				"computed", d.Computed.StringFixed(2))
		}
	})
}
