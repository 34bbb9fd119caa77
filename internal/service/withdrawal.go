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

type withdrawalService struct {
	users       repository.UserRepository
	withdrawals repository.WithdrawalRepository
	rewards     config.RewardsConfig
	notifier    Notifier
	mailer      Mailer
	log         *slog.Logger
}

func NewWithdrawalService(
	users repository.UserRepository,
	withdrawals repository.WithdrawalRepository,
	rewards config.RewardsConfig,
	notifier Notifier,
	mailer Mailer,
) WithdrawalService {
	return &withdrawalService{
		users:       users,
		withdrawals: withdrawals,
		rewards:     rewards,
		notifier:    notifier,
		mailer:      mailer,
		log:         logger.WithService("withdrawal"),
	}
}

func (s *withdrawalService) Request(ctx context.Context, userID int64, amount decimal.Decimal, method domain.WithdrawalMethod) (*domain.Withdrawal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, domain.ErrBlocked
	}

	if method != domain.WithdrawalMethodUPI && method != domain.WithdrawalMethodUSDT {
		return nil, fmt.Errorf("%w: unknown method %q", domain.ErrInvalidInput, method)
	}
	if !user.HasDestination(method) {
		return nil, domain.ErrNoDestination
	}

	amount = utils.Round2(amount)
	if amount.LessThan(s.rewards.MinWithdrawalAmount()) {
		return nil, domain.ErrBelowMinimum
	}

	// The counters are advisory throttles; the balance reservation below is
	// the only check that has to be race-free.
	today, err := s.withdrawals.CountOnDay(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if today >= int32(s.rewards.MaxWithdrawalsPerDay) {
		return nil, domain.ErrDailyLimitReached
	}
	pending, err := s.withdrawals.CountPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending >= int32(s.rewards.MaxPendingWithdrawals) {
		return nil, domain.ErrTooManyPending
	}

	fee, net := utils.WithdrawalFee(amount, s.rewards.FeePercent(), s.rewards.FeeMinimum())
	w := &domain.Withdrawal{
		UserID:      userID,
		GrossAmount: amount,
		Fee:         fee,
		NetAmount:   net,
		Method:      method,
		Destination: user.Destination(method),
	}
	if err := s.withdrawals.Create(ctx, w); err != nil {
		return nil, err
	}

	s.log.Info("withdrawal requested", "withdrawal_id", w.ID, "user_id", userID,
		"gross", amount.StringFixed(2), "net", net.StringFixed(2), "method", method)

	_ = s.mailer.SendAdminAlert(ctx, "New withdrawal request",
		fmt.Sprintf("Withdrawal #%d: user %d requests %s net via %s.",
			w.ID, userID, net.StringFixed(2), method))
	return w, nil
}

func (s *withdrawalService) Approve(ctx context.Context, actorID, id int64) (*domain.Withdrawal, error) {
	w, err := s.withdrawals.Approve(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info("withdrawal approved", "withdrawal_id", id, "user_id", w.UserID,
		"net", w.NetAmount.StringFixed(2))

	_ = s.notifier.Notify(ctx, w.UserID,
		fmt.Sprintf("Your withdrawal of %s (%s after fee) was approved and is on its way to %s.",
			w.GrossAmount.StringFixed(2), w.NetAmount.StringFixed(2), w.Destination))
	return w, nil
}

func (s *withdrawalService) Reject(ctx context.Context, actorID, id int64, reason string) (*domain.Withdrawal, error) {
	if reason == "" {
		reason = domain.RejectionReasonPaymentInfo
	}
	w, err := s.withdrawals.Reject(ctx, id, reason, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info("withdrawal rejected", "withdrawal_id", id, "user_id", w.UserID, "reason", reason)

	_ = s.notifier.Notify(ctx, w.UserID,
		fmt.Sprintf("Your withdrawal of %s was rejected: %s. The amount was returned to your balance.",
			w.GrossAmount.StringFixed(2), reason))
	return w, nil
}

func (s *withdrawalService) History(ctx context.Context, userID int64, page int32) ([]domain.Withdrawal, int32, error) {
	page = clampPage(page)
	return s.withdrawals.ListByUser(ctx, userID, page, domain.PageSize)
}

func (s *withdrawalService) NextPending(ctx context.Context) (*domain.PendingWithdrawal, error) {
	return s.withdrawals.OldestPending(ctx)
}
