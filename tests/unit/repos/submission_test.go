package repos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository/postgres"
)

func TestSubmissionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewSubmissionRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO submissions").
			WithArgs(int64(10), "some.one+x@gmail.com", "someone@gmail.com", "hunter2",
				domain.SubmissionStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec("UPDATE users SET total_submitted").
			WithArgs(sqlmock.AnyArg(), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		sub := &domain.Submission{UserID: 10, Email: "some.one+x@gmail.com", Secret: "hunter2", Reward: decimal.NewFromInt(20)}
		err := repo.Create(ctx, sub)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), sub.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateNormalizedEmail", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO submissions").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		sub := &domain.Submission{UserID: 10, Email: "someone@gmail.com", Secret: "hunter2", Reward: decimal.NewFromInt(20)}
		err := repo.Create(ctx, sub)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestSubmissionRepository_Approve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewSubmissionRepository(db)
	ctx := context.Background()

	transitionRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"user_id", "email", "reward", "submitted_at"}).
			AddRow(10, "someone@gmail.com", "20.00", time.Now())
	}

	t.Run("NotFirstApproval", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE submissions SET status = 'approved'").
			WithArgs(sqlmock.AnyArg(), int64(7)).
			WillReturnRows(transitionRow())
		mock.ExpectExec("UPDATE users SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM submissions`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := repo.Approve(ctx, 7, 1)
		assert.NoError(t, err)
		assert.False(t, result.FirstApproval)
		assert.False(t, result.ReferralPaid)
		assert.True(t, result.Submission.Reward.Equal(decimal.NewFromInt(20)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FirstApprovalPaysReferral", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE submissions SET status = 'approved'").
			WithArgs(sqlmock.AnyArg(), int64(7)).
			WillReturnRows(transitionRow())
		mock.ExpectExec("UPDATE users SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM submissions`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("UPDATE referrals SET rewarded").
			WithArgs(int64(10), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"referrer_id", "reward"}).AddRow(99, "5.00"))
		mock.ExpectExec("UPDATE users SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := repo.Approve(ctx, 7, 1)
		assert.NoError(t, err)
		assert.True(t, result.FirstApproval)
		assert.True(t, result.ReferralPaid)
		assert.Equal(t, int64(99), *result.ReferrerID)
		assert.True(t, result.ReferralReward.Equal(decimal.NewFromInt(5)))
	})

	t.Run("FirstApprovalWithoutReferral", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE submissions SET status = 'approved'").
			WithArgs(sqlmock.AnyArg(), int64(7)).
			WillReturnRows(transitionRow())
		mock.ExpectExec("UPDATE users SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM submissions`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("UPDATE referrals SET rewarded").
			WithArgs(int64(10), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"referrer_id", "reward"}))
		mock.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := repo.Approve(ctx, 7, 1)
		assert.NoError(t, err)
		assert.True(t, result.FirstApproval)
		assert.False(t, result.ReferralPaid)
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE submissions SET status = 'approved'").
			WithArgs(sqlmock.AnyArg(), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "reward", "submitted_at"}))
		mock.ExpectQuery("SELECT 1 FROM submissions").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
		mock.ExpectRollback()

		_, err := repo.Approve(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	})

	t.Run("UnknownSubmission", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE submissions SET status = 'approved'").
			WithArgs(sqlmock.AnyArg(), int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "reward", "submitted_at"}))
		mock.ExpectQuery("SELECT 1 FROM submissions").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"one"}))
		mock.ExpectRollback()

		_, err := repo.Approve(ctx, 404, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSubmissionRepository_ApproveAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewSubmissionRepository(db)
	ctx := context.Background()

	t.Run("SumsRewardsOnce", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE submissions SET status = 'approved'").
			WithArgs(sqlmock.AnyArg(), int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"email", "reward"}).
				AddRow("a@gmail.com", "20.00").
				AddRow("b@gmail.com", "20.00").
				AddRow("c@gmail.com", "25.00"))
		mock.ExpectExec("UPDATE users SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM submissions`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		mock.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := repo.ApproveAll(ctx, 10, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), result.Count)
		assert.True(t, result.TotalReward.Equal(decimal.NewFromInt(65)))
		assert.False(t, result.FirstApproval)
	})

	t.Run("NothingPending", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE submissions SET status = 'approved'").
			WithArgs(sqlmock.AnyArg(), int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"email", "reward"}))
		mock.ExpectRollback()

		_, err := repo.ApproveAll(ctx, 10, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
