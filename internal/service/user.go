package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"earnx-backend/internal/config"
	"earnx-backend/internal/domain"
	"earnx-backend/internal/logger"
	"earnx-backend/internal/repository"
	"earnx-backend/internal/utils"
)

type userService struct {
	users     repository.UserRepository
	referrals repository.ReferralRepository
	stats     repository.StatsRepository
	rewards   config.RewardsConfig
	notifier  Notifier
	log       *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	referrals repository.ReferralRepository,
	stats repository.StatsRepository,
	rewards config.RewardsConfig,
	notifier Notifier,
) UserService {
	return &userService{
		users:     users,
		referrals: referrals,
		stats:     stats,
		rewards:   rewards,
		notifier:  notifier,
		log:       logger.WithService("user"),
	}
}

func (s *userService) Register(ctx context.Context, id int64, username, firstName string, referrerID *int64) (*domain.User, bool, error) {
	user := &domain.User{ID: id, Username: username, FirstName: firstName}

	// Self-referrals and unknown referrers are silently dropped rather than
	// failing registration.
	if referrerID != nil && *referrerID != id {
		if _, err := s.users.GetByID(ctx, *referrerID); err == nil {
			user.ReferrerID = referrerID
		}
	}

	created, err := s.users.GetOrCreate(ctx, user)
	if err != nil {
		return nil, false, err
	}

	if created && user.ReferrerID != nil {
		ref := &domain.Referral{
			ReferrerID: *user.ReferrerID,
			ReferredID: id,
			Reward:     s.rewards.ReferralRewardAmount(),
		}
		linked, err := s.referrals.Create(ctx, ref)
		if err != nil {
			s.log.Error("failed to link referral", "referrer_id", *user.ReferrerID, "referred_id", id, "error", err)
		} else if linked {
			s.log.Info("referral linked", "referrer_id", *user.ReferrerID, "referred_id", id)
			_ = s.notifier.Notify(ctx, *user.ReferrerID,
				fmt.Sprintf("%s joined with your link. You earn %s when their first submission is approved.",
					displayName(user), ref.Reward.StringFixed(2)))
		}
	}

	return user, created, nil
}

func (s *userService) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) SetUPI(ctx context.Context, id int64, upiID string) error {
	if !utils.ValidateUPI(upiID) {
		return fmt.Errorf("%w: invalid UPI id", domain.ErrInvalidInput)
	}
	return s.users.SetUPI(ctx, id, upiID)
}

func (s *userService) SetUSDTAddress(ctx context.Context, id int64, address string) error {
	if !utils.ValidateUSDTAddress(address) {
		return fmt.Errorf("%w: invalid USDT TRC-20 address", domain.ErrInvalidInput)
	}
	return s.users.SetUSDTAddress(ctx, id, address)
}

func (s *userService) SetNotificationsEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.users.SetNotificationsEnabled(ctx, id, enabled)
}

func (s *userService) ClaimChannelBonus(ctx context.Context, id int64) (decimal.Decimal, error) {
	bonus := s.rewards.ChannelBonusAmount()
	if err := s.users.ClaimChannelBonus(ctx, id, bonus); err != nil {
		return decimal.Zero, err
	}
	s.log.Info("channel bonus claimed", "user_id", id, "amount", bonus.StringFixed(2))
	return bonus, nil
}

func (s *userService) Earnings(ctx context.Context, id int64, period domain.EarningsPeriod) (*domain.Earnings, error) {
	now := time.Now().UTC()
	var since time.Time
	includeBonus := false
	switch period {
	case domain.EarningsPeriodToday:
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case domain.EarningsPeriodWeek:
		since = now.AddDate(0, 0, -7)
	case domain.EarningsPeriodMonth:
		since = now.AddDate(0, -1, 0)
	case domain.EarningsPeriodAll:
		includeBonus = true
	default:
		return nil, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidInput, period)
	}
	return s.stats.Earnings(ctx, id, since, includeBonus)
}

func displayName(u *domain.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return fmt.Sprintf("user %d", u.ID)
}
