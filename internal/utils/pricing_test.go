package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

var testTiers = []RewardTier{
	{MinApproved: 0, Rate: dec("20")},
	{MinApproved: 50, Rate: dec("25")},
	{MinApproved: 100, Rate: dec("30")},
}

func TestWithdrawalFee(t *testing.T) {
	feePercent := dec("5")
	feeMin := dec("5")

	tests := []struct {
		gross string
		fee   string
		net   string
	}{
		{"100", "5", "95"},        // 5% == minimum
		{"100.00", "5", "95"},
		{"200", "10", "190"},      // percentage dominates
		{"101", "5.05", "95.95"},
		{"50", "5", "45"},         // minimum dominates
		{"100.10", "5.01", "95.09"},
		{"133.33", "6.67", "126.66"}, // 6.6665 rounds half-up
	}

	for _, tt := range tests {
		t.Run(tt.gross, func(t *testing.T) {
			fee, net := WithdrawalFee(dec(tt.gross), feePercent, feeMin)
			assert.True(t, dec(tt.fee).Equal(fee), "fee: want %s got %s", tt.fee, fee)
			assert.True(t, dec(tt.net).Equal(net), "net: want %s got %s", tt.net, net)
		})
	}
}

func TestWithdrawalFeeReconstructsGross(t *testing.T) {
	feePercent := dec("5")
	feeMin := dec("5")

	for _, gross := range []string{"100", "123.45", "999.99", "100.01", "250.55"} {
		fee, net := WithdrawalFee(dec(gross), feePercent, feeMin)
		assert.True(t, fee.Add(net).Equal(Round2(dec(gross))), "fee+net must equal gross for %s", gross)
	}
}

func TestRewardRate(t *testing.T) {
	tests := []struct {
		approved int32
		rate     string
	}{
		{0, "20"},
		{49, "20"},
		{50, "25"},
		{99, "25"},
		{100, "30"},
		{500, "30"},
	}

	for _, tt := range tests {
		rate := RewardRate(tt.approved, testTiers)
		assert.True(t, dec(tt.rate).Equal(rate), "approved=%d: want %s got %s", tt.approved, tt.rate, rate)
	}

	assert.True(t, RewardRate(10, nil).IsZero())
}

func TestValidateEmail(t *testing.T) {
	allowed := []string{"gmail.com"}

	t.Run("Valid", func(t *testing.T) {
		email, err := ValidateEmail("  Some.User@Gmail.com ", allowed)
		assert.NoError(t, err)
		assert.Equal(t, "some.user@gmail.com", email)
	})

	t.Run("Bad format", func(t *testing.T) {
		_, err := ValidateEmail("not-an-email", allowed)
		assert.Error(t, err)
	})

	t.Run("Disallowed domain", func(t *testing.T) {
		_, err := ValidateEmail("user@yahoo.com", allowed)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "gmail.com")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ValidateEmail("", allowed)
		assert.Error(t, err)
	})
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@gmail.com", "johndoe@gmail.com"},
		{"JohnDoe+promo@gmail.com", "johndoe@gmail.com"},
		{"j.o.h.n+a+b@gmail.com", "john@gmail.com"},
		{"plain@gmail.com", "plain@gmail.com"},
		{"dotted.name@other.com", "dotted.name@other.com"}, // aliasing is gmail-specific
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in))
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "jo****@gmail.com", MaskEmail("john@gmail.com"))
	assert.Equal(t, "a****@gmail.com", MaskEmail("ab@gmail.com"))
	assert.Equal(t, "no-at-sign", MaskEmail("no-at-sign"))
}

func TestValidateUPI(t *testing.T) {
	assert.True(t, ValidateUPI("name@bank"))
	assert.True(t, ValidateUPI("first.last-1@okhdfc"))
	assert.False(t, ValidateUPI(""))
	assert.False(t, ValidateUPI("missing-bank"))
	assert.False(t, ValidateUPI("two@at@signs"))
}

func TestValidateUSDTAddress(t *testing.T) {
	assert.True(t, ValidateUSDTAddress("T123456789012345678901234567890123"))
	assert.False(t, ValidateUSDTAddress("X123456789012345678901234567890123"))
	assert.False(t, ValidateUSDTAddress("Tshort"))
}
