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

const pendingQueueLimit = 50

type submissionService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	rewards     config.RewardsConfig
	notifier    Notifier
	log         *slog.Logger
}

func NewSubmissionService(
	users repository.UserRepository,
	submissions repository.SubmissionRepository,
	rewards config.RewardsConfig,
	notifier Notifier,
) SubmissionService {
	return &submissionService{
		users:       users,
		submissions: submissions,
		rewards:     rewards,
		notifier:    notifier,
		log:         logger.WithService("submission"),
	}
}

func (s *submissionService) Submit(ctx context.Context, userID int64, email, secret string) (*domain.Submission, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, domain.ErrBlocked
	}

	if user.LastSubmitTime != nil {
		cooldown := time.Duration(s.rewards.SubmitCooldownSeconds) * time.Second
		elapsed := time.Since(*user.LastSubmitTime)
		if elapsed < cooldown {
			remaining := int((cooldown - elapsed).Seconds()) + 1
			return nil, &domain.RateLimitedError{SecondsRemaining: remaining}
		}
	}

	email, err = utils.ValidateEmail(email, s.rewards.AllowedDomains)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEmail, err)
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	// The reward rate is frozen onto the row now; later tier changes never
	// reprice a submission already in the queue.
	sub := &domain.Submission{
		UserID: userID,
		Email:  email,
		Secret: secret,
		Reward: utils.RewardRate(user.TotalApproved, s.rewards.RewardTiers()),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("submission created", "submission_id", sub.ID, "user_id", userID,
		"reward", sub.Reward.StringFixed(2))
	return sub, nil
}

func (s *submissionService) Approve(ctx context.Context, actorID, id int64) (*domain.ApprovalResult, error) {
	result, err := s.submissions.Approve(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info("submission approved", "submission_id", id, "user_id", result.Submission.UserID,
		"reward", result.Submission.Reward.StringFixed(2), "first", result.FirstApproval)

	_ = s.notifier.Notify(ctx, result.Submission.UserID,
		fmt.Sprintf("Your submission %s was approved. %s credited to your balance.",
			utils.MaskEmail(result.Submission.Email), result.Submission.Reward.StringFixed(2)))
	s.notifyReferralPaid(ctx, result)

	return result, nil
}

func (s *submissionService) Reject(ctx context.Context, actorID, id int64, reason string) (*domain.Submission, error) {
	if reason == "" {
		reason = domain.RejectionReasonInvalidAccount
	}
	sub, err := s.submissions.Reject(ctx, id, reason, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info("submission rejected", "submission_id", id, "user_id", sub.UserID, "reason", reason)

	_ = s.notifier.Notify(ctx, sub.UserID,
		fmt.Sprintf("Your submission %s was rejected: %s", utils.MaskEmail(sub.Email), reason))
	return sub, nil
}

func (s *submissionService) ApproveAll(ctx context.Context, actorID, userID int64) (*domain.BatchReviewResult, error) {
	result, err := s.submissions.ApproveAll(ctx, userID, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info("batch approved", "user_id", userID, "count", result.Count,
		"total", result.TotalReward.StringFixed(2))

	_ = s.notifier.Notify(ctx, userID,
		fmt.Sprintf("%d submissions approved. %s credited to your balance.",
			result.Count, result.TotalReward.StringFixed(2)))
	if result.ReferralPaid && result.ReferrerID != nil {
		_ = s.notifier.Notify(ctx, *result.ReferrerID,
			fmt.Sprintf("Referral bonus! You earned %s.", result.ReferralReward.StringFixed(2)))
	}

	return result, nil
}

func (s *submissionService) RejectAll(ctx context.Context, actorID, userID int64, reason string) (*domain.BatchReviewResult, error) {
	if reason == "" {
		reason = domain.RejectionReasonQuality
	}
	result, err := s.submissions.RejectAll(ctx, userID, reason, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info("batch rejected", "user_id", userID, "count", result.Count, "reason", reason)

	_ = s.notifier.Notify(ctx, userID,
		fmt.Sprintf("%d submissions rejected: %s", result.Count, reason))
	return result, nil
}

func (s *submissionService) History(ctx context.Context, userID int64, page int32) ([]domain.Submission, int32, error) {
	page = clampPage(page)
	return s.submissions.ListByUser(ctx, userID, page, domain.PageSize)
}

func (s *submissionService) PendingQueue(ctx context.Context) ([]domain.PendingGroup, error) {
	return s.submissions.PendingGroups(ctx, pendingQueueLimit)
}

func (s *submissionService) PendingForUser(ctx context.Context, userID int64) ([]domain.Submission, decimal.Decimal, error) {
	subs, err := s.submissions.ListPendingByUser(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total, err := s.submissions.PendingRewardSum(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return subs, total, nil
}

func (s *submissionService) notifyReferralPaid(ctx context.Context, result *domain.ApprovalResult) {
	if result.ReferralPaid && result.ReferrerID != nil {
		_ = s.notifier.Notify(ctx, *result.ReferrerID,
			fmt.Sprintf("Referral bonus! You earned %s.", result.ReferralReward.StringFixed(2)))
	}
}

// clampPage keeps user-supplied page numbers inside [1, MaxPage].
func clampPage(page int32) int32 {
	if page < 1 {
		return 1
	}
	if page > domain.MaxPage {
		return domain.MaxPage
	}
	return page
}
