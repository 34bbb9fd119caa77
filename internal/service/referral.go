package service

import (
	"context"
	"log/slog"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/logger"
	"earnx-backend/internal/repository"
)

const leaderboardSize = 10

type referralService struct {
	referrals repository.ReferralRepository
	log       *slog.Logger
}

func NewReferralService(referrals repository.ReferralRepository) ReferralService {
	return &referralService{
		referrals: referrals,
		log:       logger.WithService("referral"),
	}
}

func (s *referralService) Stats(ctx context.Context, referrerID int64) (*domain.ReferralStats, error) {
	return s.referrals.StatsByReferrer(ctx, referrerID)
}

func (s *referralService) Leaderboard(ctx context.Context, userID int64) ([]domain.LeaderboardEntry, int32, error) {
	entries, err := s.referrals.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, 0, err
	}

	rewarded, err := s.referrals.RewardedCount(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if rewarded == 0 {
		return entries, 0, nil
	}
	rank, err := s.referrals.Rank(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return entries, rank, nil
}
