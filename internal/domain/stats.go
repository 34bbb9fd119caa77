package domain

import "github.com/shopspring/decimal"

// Stats is the admin-facing aggregate view of the ledger.
type Stats struct {
	TotalUsers          int64           `json:"total_users"`
	ApprovedSubmissions int64           `json:"approved_submissions"`
	RewardedReferrals   int64           `json:"rewarded_referrals"`
	PendingSubmissions  int64           `json:"pending_submissions"`
	PendingWithdrawals  int64           `json:"pending_withdrawals"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	SubmissionRewards   decimal.Decimal `json:"submission_rewards"`
	ReferralRewards     decimal.Decimal `json:"referral_rewards"`
	WithdrawnNet        decimal.Decimal `json:"withdrawn_net"`
	FeesCollected       decimal.Decimal `json:"fees_collected"`
}

// Earnings breaks down a user's credits for a reporting period.
type Earnings struct {
	Submissions  decimal.Decimal `json:"submissions"`
	Referrals    decimal.Decimal `json:"referrals"`
	ChannelBonus decimal.Decimal `json:"channel_bonus"`
	Total        decimal.Decimal `json:"total"`
}

// EarningsPeriod selects the window for an earnings report.
type EarningsPeriod string

const (
	EarningsPeriodToday EarningsPeriod = "today"
	EarningsPeriodWeek  EarningsPeriod = "week"
	EarningsPeriodMonth EarningsPeriod = "month"
	EarningsPeriodAll   EarningsPeriod = "all"
)

// ReconciliationDrift reports a user whose stored balance disagrees with
// the balance reconstructed from the event log.
type ReconciliationDrift struct {
	UserID   int64           `json:"user_id"`
	Stored   decimal.Decimal `json:"stored"`
	Computed decimal.Decimal `json:"computed"`
}
