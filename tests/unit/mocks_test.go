package unit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"earnx-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetOrCreate(ctx context.Context, user *domain.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) SetUPI(ctx context.Context, id int64, upiID string) error {
	args := m.Called(ctx, id, upiID)
	return args.Error(0)
}
func (m *MockUserRepo) SetUSDTAddress(ctx context.Context, id int64, address string) error {
	args := m.Called(ctx, id, address)
	return args.Error(0)
}
func (m *MockUserRepo) SetNotificationsEnabled(ctx context.Context, id int64, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}
func (m *MockUserRepo) NotificationsEnabled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) SetBlocked(ctx context.Context, id int64, blocked bool, actorID int64) error {
	args := m.Called(ctx, id, blocked, actorID)
	return args.Error(0)
}
func (m *MockUserRepo) ClaimChannelBonus(ctx context.Context, id int64, bonus decimal.Decimal) error {
	args := m.Called(ctx, id, bonus)
	return args.Error(0)
}
func (m *MockUserRepo) ListActiveIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

// MockSubmissionRepo
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
func (m *MockSubmissionRepo) GetByID(ctx context.Context, id int64) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}
func (m *MockSubmissionRepo) Approve(ctx context.Context, id int64, actorID int64) (*domain.ApprovalResult, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalResult), args.Error(1)
}
func (m *MockSubmissionRepo) Reject(ctx context.Context, id int64, reason string, actorID int64) (*domain.Submission, error) {
	args := m.Called(ctx, id, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}
func (m *MockSubmissionRepo) ApproveAll(ctx context.Context, userID int64, actorID int64) (*domain.BatchReviewResult, error) {
	args := m.Called(ctx, userID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReviewResult), args.Error(1)
}
func (m *MockSubmissionRepo) RejectAll(ctx context.Context, userID int64, reason string, actorID int64) (*domain.BatchReviewResult, error) {
	args := m.Called(ctx, userID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReviewResult), args.Error(1)
}
func (m *MockSubmissionRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Submission, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Submission), args.Get(1).(int32), args.Error(2)
}
func (m *MockSubmissionRepo) ListPendingByUser(ctx context.Context, userID int64) ([]domain.Submission, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Submission), args.Error(1)
}
func (m *MockSubmissionRepo) PendingGroups(ctx context.Context, limit int32) ([]domain.PendingGroup, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.PendingGroup), args.Error(1)
}
func (m *MockSubmissionRepo) PendingRewardSum(ctx context.Context, userID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockWithdrawalRepo
type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) Create(ctx context.Context, w *domain.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *MockWithdrawalRepo) CountOnDay(ctx context.Context, userID int64, day time.Time) (int32, error) {
	args := m.Called(ctx, userID, day)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockWithdrawalRepo) CountPending(ctx context.Context, userID int64) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockWithdrawalRepo) Approve(ctx context.Context, id int64, actorID int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *MockWithdrawalRepo) Reject(ctx context.Context, id int64, reason string, actorID int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, id, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *MockWithdrawalRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Withdrawal), args.Get(1).(int32), args.Error(2)
}
func (m *MockWithdrawalRepo) OldestPending(ctx context.Context) (*domain.PendingWithdrawal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingWithdrawal), args.Error(1)
}

// MockReferralRepo
type MockReferralRepo struct {
	mock.Mock
}

func (m *MockReferralRepo) Create(ctx context.Context, ref *domain.Referral) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}
func (m *MockReferralRepo) StatsByReferrer(ctx context.Context, referrerID int64) (*domain.ReferralStats, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralStats), args.Error(1)
}
func (m *MockReferralRepo) Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}
func (m *MockReferralRepo) Rank(ctx context.Context, referrerID int64) (int32, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockReferralRepo) RewardedCount(ctx context.Context, referrerID int64) (int32, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(int32), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepo) List(ctx context.Context, page, pageSize int32) ([]domain.AuditEntry, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.AuditEntry), args.Get(1).(int32), args.Error(2)
}

// MockStatsRepo
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Collect(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}
func (m *MockStatsRepo) Earnings(ctx context.Context, userID int64, since time.Time, includeChannelBonus bool) (*domain.Earnings, error) {
	args := m.Called(ctx, userID, since, includeChannelBonus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earnings), args.Error(1)
}
func (m *MockStatsRepo) ReconcileBalances(ctx context.Context) ([]domain.ReconciliationDrift, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ReconciliationDrift), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int64, message string) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}
func (m *MockNotifier) Broadcast(ctx context.Context, userID int64, message string) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendAdminAlert(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}
