package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Pagination bounds for user-facing history views.
const (
	PageSize int32 = 5
	MaxPage  int32 = 50
)

// Default rejection reasons offered to the reviewer.
const (
	RejectionReasonInvalidAccount = "Invalid/duplicate account"
	RejectionReasonQuality        = "Quality issues"
	RejectionReasonPaymentInfo    = "Payment info invalid"
)

// Submission is a user-submitted account credential pending verification.
// Reward is frozen at creation from the user's tier at that instant and is
// never recalculated. Status transitions only pending->approved or
// pending->rejected and is terminal once non-pending.
type Submission struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	Email           string           `json:"email"`
	Secret          string           `json:"-"`
	Status          SubmissionStatus `json:"status"`
	Reward          decimal.Decimal  `json:"reward"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}

// ApprovalResult reports the outcome of a single approval transaction,
// including the referral credit that may have fired inside it.
type ApprovalResult struct {
	Submission     *Submission
	FirstApproval  bool
	ReferrerID     *int64
	ReferralReward decimal.Decimal
	ReferralPaid   bool
}

// BatchReviewResult reports the outcome of an approve-all or reject-all
// transaction. Only rows still pending at execution time are counted.
type BatchReviewResult struct {
	UserID         int64
	Count          int32
	TotalReward    decimal.Decimal
	Emails         []string
	FirstApproval  bool
	ReferrerID     *int64
	ReferralReward decimal.Decimal
	ReferralPaid   bool
}

// PendingGroup summarizes one user's pending submission queue.
type PendingGroup struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	PendingCount int32  `json:"pending_count"`
}
