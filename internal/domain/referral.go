package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral links a referrer to a referred user. Unique per referred user.
// Rewarded flips false->true exactly once, on the referred user's first
// approved submission.
type Referral struct {
	ID         int64           `json:"id"`
	ReferrerID int64           `json:"referrer_id"`
	ReferredID int64           `json:"referred_id"`
	Reward     decimal.Decimal `json:"reward"`
	Rewarded   bool            `json:"rewarded"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ReferralStats summarizes one referrer's standing.
type ReferralStats struct {
	Total       int32           `json:"total"`
	Pending     int32           `json:"pending"`
	Rewarded    int32           `json:"rewarded"`
	TotalEarned decimal.Decimal `json:"total_earned"`
}

// LeaderboardEntry is one row of the rewarded-referral leaderboard.
type LeaderboardEntry struct {
	UserID        int64  `json:"user_id"`
	FirstName     string `json:"first_name"`
	Username      string `json:"username"`
	ReferralCount int32  `json:"referral_count"`
}
