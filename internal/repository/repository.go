package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"earnx-backend/internal/domain"
)

// Every state-transition method below executes as one conditional mutation
// ("UPDATE ... WHERE status='pending' RETURNING ...") together with its
// balance effect and audit entry inside a single database transaction.
// A transition that finds no matching row returns domain.ErrAlreadyProcessed.

type UserRepository interface {
	// GetOrCreate inserts the user on first contact; returns whether a row
	// was created. Referrer is set once at creation, never mutated.
	GetOrCreate(ctx context.Context, user *domain.User) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetUPI(ctx context.Context, id int64, upiID string) error
	SetUSDTAddress(ctx context.Context, id int64, address string) error
	SetNotificationsEnabled(ctx context.Context, id int64, enabled bool) error
	NotificationsEnabled(ctx context.Context, id int64) (bool, error)
	// SetBlocked flips the block flag and appends the audit entry in the
	// same transaction. Returns the new state.
	SetBlocked(ctx context.Context, id int64, blocked bool, actorID int64) error
	// ClaimChannelBonus credits the one-time bonus only if it has not been
	// claimed yet; domain.ErrAlreadyProcessed otherwise.
	ClaimChannelBonus(ctx context.Context, id int64, bonus decimal.Decimal) error
	// ListActiveIDs returns ids of all unblocked users, for broadcast.
	ListActiveIDs(ctx context.Context) ([]int64, error)
}

type SubmissionRepository interface {
	// Create inserts a pending submission, bumps total_submitted and
	// records last_submit_time in one transaction. A normalized-email
	// uniqueness violation maps to domain.ErrDuplicateEmail.
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id int64) (*domain.Submission, error)
	// Approve transitions pending->approved, credits the frozen reward,
	// bumps total_approved, and, when this is the user's first approval,
	// flips the referral reward inside the same transaction.
	Approve(ctx context.Context, id int64, actorID int64) (*domain.ApprovalResult, error)
	Reject(ctx context.Context, id int64, reason string, actorID int64) (*domain.Submission, error)
	// ApproveAll transitions every submission still pending for the user,
	// applies one summed credit, and runs the first-approval check once.
	ApproveAll(ctx context.Context, userID int64, actorID int64) (*domain.BatchReviewResult, error)
	RejectAll(ctx context.Context, userID int64, reason string, actorID int64) (*domain.BatchReviewResult, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Submission, int32, error)
	ListPendingByUser(ctx context.Context, userID int64) ([]domain.Submission, error)
	// PendingGroups lists users with pending submissions, busiest first.
	PendingGroups(ctx context.Context, limit int32) ([]domain.PendingGroup, error)
	PendingRewardSum(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type WithdrawalRepository interface {
	// Create debits the gross amount conditionally (balance >= gross) and
	// inserts the pending row in one transaction; if the debit matches no
	// row the request fails with domain.ErrInsufficientBalance and nothing
	// is inserted.
	Create(ctx context.Context, w *domain.Withdrawal) error
	GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error)
	// CountOnDay counts pending+approved withdrawals requested on the day.
	CountOnDay(ctx context.Context, userID int64, day time.Time) (int32, error)
	CountPending(ctx context.Context, userID int64) (int32, error)
	Approve(ctx context.Context, id int64, actorID int64) (*domain.Withdrawal, error)
	// Reject refunds the gross amount in the same transaction.
	Reject(ctx context.Context, id int64, reason string, actorID int64) (*domain.Withdrawal, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error)
	// OldestPending returns the head of the admin review queue, or
	// domain.ErrNotFound when the queue is empty.
	OldestPending(ctx context.Context) (*domain.PendingWithdrawal, error)
}

type ReferralRepository interface {
	// Create registers a referral; uniqueness on referred_id makes retries
	// idempotent. Returns false when a referral already exists.
	Create(ctx context.Context, ref *domain.Referral) (bool, error)
	StatsByReferrer(ctx context.Context, referrerID int64) (*domain.ReferralStats, error)
	// Leaderboard ranks referrers by rewarded referral count; unconverted
	// referrals never move the standings.
	Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error)
	// Rank returns the referrer's 1-based leaderboard position by rewarded
	// referral count. A user with none ranks below every rewarded referrer.
	Rank(ctx context.Context, referrerID int64) (int32, error)
	RewardedCount(ctx context.Context, referrerID int64) (int32, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, page, pageSize int32) ([]domain.AuditEntry, int32, error)
}

type StatsRepository interface {
	Collect(ctx context.Context) (*domain.Stats, error)
	// Earnings sums a user's credits with review/reward dates >= since.
	// The channel bonus is included only for all-time reports.
	Earnings(ctx context.Context, userID int64, since time.Time, includeChannelBonus bool) (*domain.Earnings, error)
	// ReconcileBalances recomputes every balance from the event log and
	// returns the users whose stored balance drifted.
	ReconcileBalances(ctx context.Context) ([]domain.ReconciliationDrift, error)
}
