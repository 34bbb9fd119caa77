package unit

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/service"
)

func TestAdminService_Broadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("CountsSentAndFailed", func(t *testing.T) {
		users := new(MockUserRepo)
		audit := new(MockAuditRepo)
		notifier := new(MockNotifier)
		svc := service.NewAdminService(users, new(MockStatsRepo), audit, notifier, new(MockMailer))

		users.On("ListActiveIDs", ctx).Return([]int64{1, 2, 3}, nil)
		notifier.On("Broadcast", ctx, int64(1), "hello").Return(nil)
		notifier.On("Broadcast", ctx, int64(2), "hello").Return(assert.AnError)
		notifier.On("Broadcast", ctx, int64(3), "hello").Return(nil)
		audit.On("Append", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
			return e.Action == domain.AuditActionBroadcast && e.ActorID == 7
		})).Return(nil)

		sent, failed, err := svc.Broadcast(ctx, 7, "hello")
		assert.NoError(t, err)
		assert.Equal(t, int32(2), sent)
		assert.Equal(t, int32(1), failed)
		audit.AssertExpectations(t)
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		svc := service.NewAdminService(new(MockUserRepo), new(MockStatsRepo), new(MockAuditRepo), new(MockNotifier), new(MockMailer))

		_, _, err := svc.Broadcast(ctx, 7, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAdminService_BlockUser(t *testing.T) {
	ctx := context.Background()

	t.Run("BlockNotifies", func(t *testing.T) {
		users := new(MockUserRepo)
		notifier := new(MockNotifier)
		svc := service.NewAdminService(users, new(MockStatsRepo), new(MockAuditRepo), notifier, new(MockMailer))

		users.On("SetBlocked", ctx, int64(10), true, int64(7)).Return(nil)
		notifier.On("Notify", ctx, int64(10), mock.AnythingOfType("string")).Return(nil)

		assert.NoError(t, svc.BlockUser(ctx, 7, 10, true))
		users.AssertExpectations(t)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		users := new(MockUserRepo)
		notifier := new(MockNotifier)
		svc := service.NewAdminService(users, new(MockStatsRepo), new(MockAuditRepo), notifier, new(MockMailer))

		users.On("SetBlocked", ctx, int64(404), true, int64(7)).Return(domain.ErrNotFound)

		err := svc.BlockUser(ctx, 7, 404, true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminService_ReconcileBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("DriftAlertsOperator", func(t *testing.T) {
		stats := new(MockStatsRepo)
		audit := new(MockAuditRepo)
		mailer := new(MockMailer)
		svc := service.NewAdminService(new(MockUserRepo), stats, audit, new(MockNotifier), mailer)

		drifts := []domain.ReconciliationDrift{
			{UserID: 10, Stored: decimal.NewFromInt(100), Computed: decimal.NewFromInt(95)},
		}
		stats.On("ReconcileBalances", ctx).Return(drifts, nil)
		audit.On("Append", ctx, mock.AnythingOfType("*domain.AuditEntry")).Return(nil)
		mailer.On("SendAdminAlert", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

		got, err := svc.ReconcileBalances(ctx, 7)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		mailer.AssertExpectations(t)
	})

	t.Run("CleanRunSkipsAlert", func(t *testing.T) {
		stats := new(MockStatsRepo)
		audit := new(MockAuditRepo)
		mailer := new(MockMailer)
		svc := service.NewAdminService(new(MockUserRepo), stats, audit, new(MockNotifier), mailer)

		stats.On("ReconcileBalances", ctx).Return([]domain.ReconciliationDrift{}, nil)
		audit.On("Append", ctx, mock.AnythingOfType("*domain.AuditEntry")).Return(nil)

		got, err := svc.ReconcileBalances(ctx, 7)
		assert.NoError(t, err)
		assert.Empty(t, got)
		mailer.AssertNotCalled(t, "SendAdminAlert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReferralService_Leaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("RankedUser", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		svc := service.NewReferralService(referrals)

		entries := []domain.LeaderboardEntry{{UserID: 99, FirstName: "Top", ReferralCount: 12}}
		referrals.On("Leaderboard", ctx, int32(10)).Return(entries, nil)
		referrals.On("RewardedCount", ctx, int64(10)).Return(int32(3), nil)
		referrals.On("Rank", ctx, int64(10)).Return(int32(4), nil)

		got, rank, err := svc.Leaderboard(ctx, 10)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, int32(4), rank)
	})

	t.Run("NoRewardedReferralsUnranked", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		svc := service.NewReferralService(referrals)

		// Linked-but-unconverted referrals leave the user off the board.
		referrals.On("Leaderboard", ctx, int32(10)).Return([]domain.LeaderboardEntry{}, nil)
		referrals.On("RewardedCount", ctx, int64(10)).Return(int32(0), nil)

		_, rank, err := svc.Leaderboard(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), rank)
		referrals.AssertNotCalled(t, "Rank", mock.Anything, mock.Anything)
	})
}
