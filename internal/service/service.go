package service

import (
	"context"

	"github.com/shopspring/decimal"

	"earnx-backend/internal/domain"
)

type UserService interface {
	// Register creates the user on first contact and links the referral if
	// a valid referrer id is supplied. Returns whether the user is new.
	Register(ctx context.Context, id int64, username, firstName string, referrerID *int64) (*domain.User, bool, error)
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
	SetUPI(ctx context.Context, id int64, upiID string) error
	SetUSDTAddress(ctx context.Context, id int64, address string) error
	SetNotificationsEnabled(ctx context.Context, id int64, enabled bool) error
	// ClaimChannelBonus credits the one-time bonus. The caller attests
	// channel membership; the claim itself is idempotent.
	ClaimChannelBonus(ctx context.Context, id int64) (decimal.Decimal, error)
	Earnings(ctx context.Context, id int64, period domain.EarningsPeriod) (*domain.Earnings, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, userID int64, email, secret string) (*domain.Submission, error)
	Approve(ctx context.Context, actorID, id int64) (*domain.ApprovalResult, error)
	Reject(ctx context.Context, actorID, id int64, reason string) (*domain.Submission, error)
	ApproveAll(ctx context.Context, actorID, userID int64) (*domain.BatchReviewResult, error)
	RejectAll(ctx context.Context, actorID, userID int64, reason string) (*domain.BatchReviewResult, error)
	History(ctx context.Context, userID int64, page int32) ([]domain.Submission, int32, error)
	PendingQueue(ctx context.Context) ([]domain.PendingGroup, error)
	// PendingForUser lists a user's pending submissions together with the
	// payout the reviewer would release by approving them all.
	PendingForUser(ctx context.Context, userID int64) ([]domain.Submission, decimal.Decimal, error)
}

type WithdrawalService interface {
	Request(ctx context.Context, userID int64, amount decimal.Decimal, method domain.WithdrawalMethod) (*domain.Withdrawal, error)
	Approve(ctx context.Context, actorID, id int64) (*domain.Withdrawal, error)
	Reject(ctx context.Context, actorID, id int64, reason string) (*domain.Withdrawal, error)
	History(ctx context.Context, userID int64, page int32) ([]domain.Withdrawal, int32, error)
	// NextPending returns the head of the review queue.
	NextPending(ctx context.Context) (*domain.PendingWithdrawal, error)
}

type ReferralService interface {
	Stats(ctx context.Context, referrerID int64) (*domain.ReferralStats, error)
	Leaderboard(ctx context.Context, userID int64) ([]domain.LeaderboardEntry, int32, error)
}

type AdminService interface {
	BlockUser(ctx context.Context, actorID, userID int64, blocked bool) error
	Stats(ctx context.Context) (*domain.Stats, error)
	Broadcast(ctx context.Context, actorID int64, message string) (sent, failed int32, err error)
	AuditLog(ctx context.Context, page int32) ([]domain.AuditEntry, int32, error)
	ReconcileBalances(ctx context.Context, actorID int64) ([]domain.ReconciliationDrift, error)
}

// Notifier delivers a message to a user's chat. Implementations must honor
// the user's notification preference; delivery failures are reported but
// never abort the workflow that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) error
	// Broadcast ignores the notification preference; only the block flag
	// filters recipients, and that happens at the caller.
	Broadcast(ctx context.Context, userID int64, message string) error
}

// Mailer sends operational alerts to the operator's mailbox.
type Mailer interface {
	SendAdminAlert(ctx context.Context, subject, message string) error
}
