package repos

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"earnx-backend/internal/repository/postgres"
)

func TestReferralRepository_Leaderboard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReferralRepository(db)
	ctx := context.Background()

	t.Run("CountsRewardedOnly", func(t *testing.T) {
		mock.ExpectQuery(`WHERE r\.rewarded`).
			WithArgs(int32(10)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "username", "count"}).
				AddRow(99, "Top", "top", 12).
				AddRow(98, "Second", "second", 7))

		entries, err := repo.Leaderboard(ctx, 10)
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, int64(99), entries[0].UserID)
		assert.Equal(t, int32(12), entries[0].ReferralCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReferralRepository_Rank(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReferralRepository(db)
	ctx := context.Background()

	t.Run("RanksByRewardedCount", func(t *testing.T) {
		mock.ExpectQuery(`FROM referrals WHERE rewarded GROUP BY referrer_id`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"rank"}).AddRow(4))

		rank, err := repo.Rank(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, int32(4), rank)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InnerQueryExcludesUnrewarded", func(t *testing.T) {
		mock.ExpectQuery(`referrer_id = \$1 AND rewarded`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"rank"}).AddRow(1))

		rank, err := repo.Rank(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), rank)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReferralRepository_RewardedCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReferralRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`referrer_id = \$1 AND rewarded`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.RewardedCount(ctx, 10)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), count)
}
