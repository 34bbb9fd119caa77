package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

type WithdrawalMethod string

const (
	WithdrawalMethodUPI  WithdrawalMethod = "upi"
	WithdrawalMethodUSDT WithdrawalMethod = "usdt"
)

// Withdrawal is a payout request. Fee and net amount are computed once at
// request time and frozen. Destination is a snapshot of the user's profile
// at request time so later profile edits cannot redirect an in-flight
// payout. The gross amount is debited from the balance at creation and
// refunded only on rejection.
type Withdrawal struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	GrossAmount     decimal.Decimal  `json:"gross_amount"`
	Fee             decimal.Decimal  `json:"fee"`
	NetAmount       decimal.Decimal  `json:"net_amount"`
	Method          WithdrawalMethod `json:"method"`
	Destination     string           `json:"destination"`
	Status          WithdrawalStatus `json:"status"`
	RequestedAt     time.Time        `json:"requested_at"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}

// PendingWithdrawal pairs the oldest pending withdrawal with its owner for
// the admin review queue.
type PendingWithdrawal struct {
	Withdrawal
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}
