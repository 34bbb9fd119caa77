package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a participant identified by their chat platform id. Created on
// first contact, never deleted. Balance and counters are mutated only by
// the workflow services.
type User struct {
	ID                   int64           `json:"id"`
	Username             string          `json:"username"`
	FirstName            string          `json:"first_name"`
	Balance              decimal.Decimal `json:"balance"`
	TotalSubmitted       int32           `json:"total_submitted"`
	TotalApproved        int32           `json:"total_approved"`
	IsBlocked            bool            `json:"is_blocked"`
	ReferrerID           *int64          `json:"referrer_id,omitempty"`
	UPIID                string          `json:"upi_id,omitempty"`
	USDTAddress          string          `json:"usdt_address,omitempty"`
	ChannelBonusClaimed  bool            `json:"channel_bonus_claimed"`
	NotificationsEnabled bool            `json:"notifications_enabled"`
	LastSubmitTime       *time.Time      `json:"last_submit_time,omitempty"`
	JoinedAt             time.Time       `json:"joined_at"`
}

// HasDestination reports whether the user has a payout destination
// configured for the given withdrawal method.
func (u *User) HasDestination(method WithdrawalMethod) bool {
	switch method {
	case WithdrawalMethodUPI:
		return u.UPIID != ""
	case WithdrawalMethodUSDT:
		return u.USDTAddress != ""
	}
	return false
}

// Destination returns the payout destination snapshot for the method.
func (u *User) Destination(method WithdrawalMethod) string {
	if method == WithdrawalMethodUPI {
		return u.UPIID
	}
	return u.USDTAddress
}
