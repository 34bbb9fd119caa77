package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository"
)

type referralRepository struct {
	db *sql.DB
}

func NewReferralRepository(db *sql.DB) repository.ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, ref *domain.Referral) (bool, error) {
	ref.CreatedAt = time.Now().UTC()
	query := `INSERT INTO referrals (referrer_id, referred_id, reward, rewarded, created_at)
	          VALUES ($1, $2, $3, FALSE, $4)
	          ON CONFLICT (referred_id) DO NOTHING
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		ref.ReferrerID, ref.ReferredID, ref.Reward, ref.CreatedAt).Scan(&ref.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create referral: %w", err)
	}
	return true, nil
}

func (r *referralRepository) StatsByReferrer(ctx context.Context, referrerID int64) (*domain.ReferralStats, error) {
	stats := &domain.ReferralStats{}
	query := `SELECT count(*),
	                 count(*) FILTER (WHERE NOT rewarded),
	                 count(*) FILTER (WHERE rewarded),
	                 COALESCE(SUM(reward) FILTER (WHERE rewarded), 0)
	          FROM referrals WHERE referrer_id = $1`
	err := r.db.QueryRowContext(ctx, query, referrerID).Scan(&stats.Total, &stats.Pending,
		&stats.Rewarded, &stats.TotalEarned)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *referralRepository) Leaderboard(ctx context.Context, limit int32) ([]domain.LeaderboardEntry, error) {
	// Only converted referrals count toward standings.
	query := `SELECT u.id, COALESCE(u.first_name, ''), COALESCE(u.username, ''), count(r.id)
	          FROM referrals r JOIN users u ON r.referrer_id = u.id
	          WHERE r.rewarded
	          GROUP BY u.id, u.first_name, u.username
	          ORDER BY count(r.id) DESC, u.id LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.FirstName, &e.Username, &e.ReferralCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *referralRepository) Rank(ctx context.Context, referrerID int64) (int32, error) {
	var rank int32
	query := `SELECT count(*) + 1
	          FROM (SELECT referrer_id, count(*) AS c FROM referrals WHERE rewarded GROUP BY referrer_id) t
	          WHERE t.c > (SELECT count(*) FROM referrals WHERE referrer_id = $1 AND rewarded)`
	err := r.db.QueryRowContext(ctx, query, referrerID).Scan(&rank)
	return rank, err
}

func (r *referralRepository) RewardedCount(ctx context.Context, referrerID int64) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM referrals WHERE referrer_id = $1 AND rewarded`
	err := r.db.QueryRowContext(ctx, query, referrerID).Scan(&count)
	return count, err
}
