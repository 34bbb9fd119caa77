package postgres

import (
	"context"
	"database/sql"
	"time"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Collect(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}
	query := `SELECT
	    (SELECT count(*) FROM users),
	    (SELECT count(*) FROM submissions WHERE status = 'approved'),
	    (SELECT count(*) FROM referrals WHERE rewarded),
	    (SELECT count(*) FROM submissions WHERE status = 'pending'),
	    (SELECT count(*) FROM withdrawals WHERE status = 'pending'),
	    (SELECT COALESCE(SUM(balance), 0) FROM users),
	    (SELECT COALESCE(SUM(reward), 0) FROM submissions WHERE status = 'approved'),
	    (SELECT COALESCE(SUM(reward), 0) FROM referrals WHERE rewarded),
	    (SELECT COALESCE(SUM(net_amount), 0) FROM withdrawals WHERE status = 'approved'),
	    (SELECT COALESCE(SUM(fee), 0) FROM withdrawals WHERE status = 'approved')`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalUsers, &stats.ApprovedSubmissions, &stats.RewardedReferrals,
		&stats.PendingSubmissions, &stats.PendingWithdrawals,
		&stats.TotalBalance, &stats.SubmissionRewards, &stats.ReferralRewards,
		&stats.WithdrawnNet, &stats.FeesCollected)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statsRepository) Earnings(ctx context.Context, userID int64, since time.Time, includeChannelBonus bool) (*domain.Earnings, error) {
	e := &domain.Earnings{}
	query := `SELECT
	    (SELECT COALESCE(SUM(reward), 0) FROM submissions
	     WHERE user_id = $1 AND status = 'approved' AND reviewed_at >= $2),
	    (SELECT COALESCE(SUM(reward), 0) FROM referrals
	     WHERE referrer_id = $1 AND rewarded AND rewarded_at >= $2)`
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&e.Submissions, &e.Referrals)
	if err != nil {
		return nil, err
	}

	if includeChannelBonus {
		err := r.db.QueryRowContext(ctx,
			`SELECT channel_bonus_amount FROM users WHERE id = $1`, userID).Scan(&e.ChannelBonus)
		if err != nil {
			return nil, mapNotFound(err)
		}
	}

	e.Total = e.Submissions.Add(e.Referrals).Add(e.ChannelBonus)
	return e, nil
}

func (r *statsRepository) ReconcileBalances(ctx context.Context) ([]domain.ReconciliationDrift, error) {
	// Recompute each balance from immutable records: every credit the user
	// ever earned minus every reservation still held or paid out. Rejected
	// withdrawals refunded, so they cancel out of the computation.
	query := `SELECT u.id, u.balance,
	    COALESCE(s.earned, 0) + COALESCE(rf.earned, 0) + u.channel_bonus_amount - COALESCE(w.reserved, 0) AS computed
	    FROM users u
	    LEFT JOIN (SELECT user_id, SUM(reward) AS earned FROM submissions
	               WHERE status = 'approved' GROUP BY user_id) s ON s.user_id = u.id
	    LEFT JOIN (SELECT referrer_id, SUM(reward) AS earned FROM referrals
	               WHERE rewarded GROUP BY referrer_id) rf ON rf.referrer_id = u.id
	    LEFT JOIN (SELECT user_id, SUM(gross_amount) AS reserved FROM withdrawals
	               WHERE status IN ('pending', 'approved') GROUP BY user_id) w ON w.user_id = u.id
	    WHERE u.balance <> COALESCE(s.earned, 0) + COALESCE(rf.earned, 0) + u.channel_bonus_amount - COALESCE(w.reserved, 0)
	    ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []domain.ReconciliationDrift
	for rows.Next() {
		var d domain.ReconciliationDrift
		if err := rows.Scan(&d.UserID, &d.Stored, &d.Computed); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}
