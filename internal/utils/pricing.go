package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Withdrawal fee parameters and tier thresholds live in config; the
// functions here are pure so they can be frozen onto rows at creation time
// and unit-tested without a store.

// Round2 rounds to two decimal places, half away from zero, matching the
// currency precision used everywhere in the ledger.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// WithdrawalFee computes (fee, net) for a gross amount. The fee is rounded
// first and the net derived by subtraction so fee+net always reconstructs
// gross exactly.
func WithdrawalFee(gross, feePercent, feeMinimum decimal.Decimal) (fee, net decimal.Decimal) {
	gross = Round2(gross)
	fee = Round2(gross.Mul(feePercent).Div(decimal.NewFromInt(100)))
	if fee.LessThan(feeMinimum) {
		fee = Round2(feeMinimum)
	}
	net = gross.Sub(fee)
	return fee, net
}

// RewardTier is one step of the per-item reward schedule.
type RewardTier struct {
	MinApproved int32
	Rate        decimal.Decimal
}

// RewardRate returns the per-item reward for a user with the given
// approved count. Tiers must be sorted by ascending MinApproved; the last
// tier whose threshold is met wins.
func RewardRate(approvedCount int32, tiers []RewardTier) decimal.Decimal {
	if len(tiers) == 0 {
		return decimal.Zero
	}
	rate := tiers[0].Rate
	for _, t := range tiers {
		if approvedCount >= t.MinApproved {
			rate = t.Rate
		}
	}
	return rate
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks format and domain allowlist, returning the
// lowercased trimmed address.
func ValidateEmail(email string, allowedDomains []string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > 100 {
		return "", fmt.Errorf("email must be 1-100 characters")
	}
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("invalid email format")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	for _, d := range allowedDomains {
		if domain == d {
			return email, nil
		}
	}
	return "", fmt.Errorf("only %s allowed", strings.Join(allowedDomains, ", "))
}

// NormalizeEmail collapses provider aliasing for duplicate detection:
// gmail local parts drop dots and anything after a plus tag.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if domain == "gmail.com" {
		local = strings.ReplaceAll(local, ".", "")
		if i := strings.Index(local, "+"); i >= 0 {
			local = local[:i]
		}
	}
	return local + "@" + domain
}

// MaskEmail hides most of the local part for user-facing messages.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return local[:1] + "****" + domain
	}
	return local[:2] + "****" + domain
}

var upiPattern = regexp.MustCompile(`^[\w.-]+@\w+$`)

// ValidateUPI checks a UPI payout id (name@bank).
func ValidateUPI(id string) bool {
	return id != "" && len(id) <= 50 && upiPattern.MatchString(id)
}

// ValidateUSDTAddress checks a TRC-20 address: 34 characters, 'T' prefix.
func ValidateUSDTAddress(addr string) bool {
	return len(addr) == 34 && strings.HasPrefix(addr, "T")
}
