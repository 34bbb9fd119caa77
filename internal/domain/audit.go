package domain

import "time"

// AuditEntry is an append-only record of a ledger-affecting action. Entries
// are written in the same transaction as the mutation they describe and are
// never updated or deleted.
type AuditEntry struct {
	ID           int64     `json:"id"`
	Action       string    `json:"action"`
	ActorID      int64     `json:"actor_id"`
	TargetUserID *int64    `json:"target_user_id,omitempty"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	AuditActionApproveSubmission = "approve_submission"
	AuditActionRejectSubmission  = "reject_submission"
	AuditActionApproveAll        = "approve_all_submissions"
	AuditActionRejectAll         = "reject_all_submissions"
	AuditActionApproveWithdrawal = "approve_withdrawal"
	AuditActionRejectWithdrawal  = "reject_withdrawal"
	AuditActionBlockUser         = "block_user"
	AuditActionUnblockUser       = "unblock_user"
	AuditActionBroadcast         = "broadcast"
	AuditActionReconcile         = "reconcile"
	AuditActionStatsSnapshot     = "stats_snapshot"
)
