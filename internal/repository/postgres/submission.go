package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository"
	"earnx-backend/internal/utils"
)

type submissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	sub.Status = domain.SubmissionStatusPending
	sub.SubmittedAt = time.Now().UTC()
	return runTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `INSERT INTO submissions (user_id, email, normalized_email, secret, status, reward, submitted_at)
		          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
		err := tx.QueryRowContext(ctx, query,
			sub.UserID, sub.Email, utils.NormalizeEmail(sub.Email), sub.Secret,
			sub.Status, sub.Reward, sub.SubmittedAt).Scan(&sub.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("insert submission: %w", err)
		}

		// Cooldown stamp and counter move with the insert so an aborted
		// creation leaves neither behind.
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET total_submitted = total_submitted + 1, last_submit_time = $1 WHERE id = $2`,
			sub.SubmittedAt, sub.UserID)
		return err
	})
}

const submissionColumns = `id, user_id, email, secret, status, reward, submitted_at, reviewed_at, COALESCE(rejection_reason, '')`

func scanSubmission(scan func(dest ...any) error) (*domain.Submission, error) {
	s := &domain.Submission{}
	var reviewedAt sql.NullTime
	err := scan(&s.ID, &s.UserID, &s.Email, &s.Secret, &s.Status, &s.Reward,
		&s.SubmittedAt, &reviewedAt, &s.RejectionReason)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		s.ReviewedAt = &t
	}
	return s, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id int64) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	return scanSubmission(r.db.QueryRowContext(ctx, query, id).Scan)
}

func (r *submissionRepository) Approve(ctx context.Context, id int64, actorID int64) (*domain.ApprovalResult, error) {
	result := &domain.ApprovalResult{}
	now := time.Now().UTC()

	err := runTx(ctx, r.db, func(tx *sql.Tx) error {
		// The conditional transition is the concurrency primitive: of any
		// number of racing approvals, exactly one sees the pending row.
		sub := &domain.Submission{ID: id, Status: domain.SubmissionStatusApproved, ReviewedAt: &now}
		query := `UPDATE submissions SET status = 'approved', reviewed_at = $1
		          WHERE id = $2 AND status = 'pending'
		          RETURNING user_id, email, reward, submitted_at`
		err := tx.QueryRowContext(ctx, query, now, id).Scan(&sub.UserID, &sub.Email, &sub.Reward, &sub.SubmittedAt)
		if err == sql.ErrNoRows {
			return transitionConflict(ctx, tx, `SELECT 1 FROM submissions WHERE id = $1`, id)
		}
		if err != nil {
			return fmt.Errorf("approve submission: %w", err)
		}
		result.Submission = sub

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET balance = balance + $1, total_approved = total_approved + 1 WHERE id = $2`,
			sub.Reward, sub.UserID)
		if err != nil {
			return fmt.Errorf("credit reward: %w", err)
		}

		first, err := isFirstApproval(ctx, tx, sub.UserID, 1)
		if err != nil {
			return err
		}
		result.FirstApproval = first
		if first {
			if err := rewardReferral(ctx, tx, sub.UserID, result); err != nil {
				return err
			}
		}

		detail := fmt.Sprintf("submission #%d - %s - %s", id, utils.MaskEmail(sub.Email), sub.Reward.StringFixed(2))
		return appendAudit(ctx, tx, domain.AuditActionApproveSubmission, actorID, &sub.UserID, detail)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *submissionRepository) Reject(ctx context.Context, id int64, reason string, actorID int64) (*domain.Submission, error) {
	now := time.Now().UTC()
	sub := &domain.Submission{ID: id, Status: domain.SubmissionStatusRejected, ReviewedAt: &now, RejectionReason: reason}

	err := runTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `UPDATE submissions SET status = 'rejected', reviewed_at = $1, rejection_reason = $2
		          WHERE id = $3 AND status = 'pending'
		          RETURNING user_id, email, reward, submitted_at`
		err := tx.QueryRowContext(ctx, query, now, reason, id).Scan(&sub.UserID, &sub.Email, &sub.Reward, &sub.SubmittedAt)
		if err == sql.ErrNoRows {
			return transitionConflict(ctx, tx, `SELECT 1 FROM submissions WHERE id = $1`, id)
		}
		if err != nil {
			return fmt.Errorf("reject submission: %w", err)
		}

		detail := fmt.Sprintf("submission #%d - %s - %s", id, utils.MaskEmail(sub.Email), reason)
		return appendAudit(ctx, tx, domain.AuditActionRejectSubmission, actorID, &sub.UserID, detail)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *submissionRepository) ApproveAll(ctx context.Context, userID int64, actorID int64) (*domain.BatchReviewResult, error) {
	result := &domain.BatchReviewResult{UserID: userID, TotalReward: decimal.Zero}
	now := time.Now().UTC()

	err := runTx(ctx, r.db, func(tx *sql.Tx) error {
		// Scoped by status='pending': rows claimed by a racing single
		// approval are excluded here, never double-paid.
		query := `UPDATE submissions SET status = 'approved', reviewed_at = $1
		          WHERE user_id = $2 AND status = 'pending'
		          RETURNING email, reward`
		rows, err := tx.QueryContext(ctx, query, now, userID)
		if err != nil {
			return fmt.Errorf("approve all submissions: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var email string
			var reward decimal.Decimal
			if err := rows.Scan(&email, &reward); err != nil {
				return err
			}
			result.Count++
			result.TotalReward = result.TotalReward.Add(reward)
			result.Emails = append(result.Emails, email)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if result.Count == 0 {
			return domain.ErrNotFound
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET balance = balance + $1, total_approved = total_approved + $2 WHERE id = $3`,
			result.TotalReward, result.Count, userID)
		if err != nil {
			return fmt.Errorf("credit batch reward: %w", err)
		}

		first, err := isFirstApproval(ctx, tx, userID, result.Count)
		if err != nil {
			return err
		}
		result.FirstApproval = first
		if first {
			batch := &domain.ApprovalResult{}
			if err := rewardReferral(ctx, tx, userID, batch); err != nil {
				return err
			}
			result.ReferrerID = batch.ReferrerID
			result.ReferralReward = batch.ReferralReward
			result.ReferralPaid = batch.ReferralPaid
		}

		detail := fmt.Sprintf("%d submissions - %s", result.Count, result.TotalReward.StringFixed(2))
		return appendAudit(ctx, tx, domain.AuditActionApproveAll, actorID, &userID, detail)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *submissionRepository) RejectAll(ctx context.Context, userID int64, reason string, actorID int64) (*domain.BatchReviewResult, error) {
	result := &domain.BatchReviewResult{UserID: userID, TotalReward: decimal.Zero}
	now := time.Now().UTC()

	err := runTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `UPDATE submissions SET status = 'rejected', reviewed_at = $1, rejection_reason = $2
		          WHERE user_id = $3 AND status = 'pending'
		          RETURNING email`
		rows, err := tx.QueryContext(ctx, query, now, reason, userID)
		if err != nil {
			return fmt.Errorf("reject all submissions: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var email string
			if err := rows.Scan(&email); err != nil {
				return err
			}
			result.Count++
			result.Emails = append(result.Emails, email)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if result.Count == 0 {
			return domain.ErrNotFound
		}

		detail := fmt.Sprintf("%d submissions - %s", result.Count, reason)
		return appendAudit(ctx, tx, domain.AuditActionRejectAll, actorID, &userID, detail)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *submissionRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Submission, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + submissionColumns + ` FROM submissions
	          WHERE user_id = $1 ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		subs = append(subs, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM submissions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}
	return subs, count, nil
}

func (r *submissionRepository) ListPendingByUser(ctx context.Context, userID int64) ([]domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
	          WHERE user_id = $1 AND status = 'pending' ORDER BY submitted_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

func (r *submissionRepository) PendingGroups(ctx context.Context, limit int32) ([]domain.PendingGroup, error) {
	query := `SELECT u.id, COALESCE(u.username, ''), COALESCE(u.first_name, ''), count(s.id)
	          FROM submissions s JOIN users u ON s.user_id = u.id
	          WHERE s.status = 'pending'
	          GROUP BY u.id, u.username, u.first_name
	          ORDER BY count(s.id) DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.PendingGroup
	for rows.Next() {
		var g domain.PendingGroup
		if err := rows.Scan(&g.UserID, &g.Username, &g.FirstName, &g.PendingCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *submissionRepository) PendingRewardSum(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(reward), 0) FROM submissions WHERE user_id = $1 AND status = 'pending'`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&sum)
	return sum, err
}

// isFirstApproval reports whether the rows just approved in this
// transaction are the user's first. justApproved is the size of the batch
// that transitioned.
func isFirstApproval(ctx context.Context, tx *sql.Tx, userID int64, justApproved int32) (bool, error) {
	var total int32
	err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM submissions WHERE user_id = $1 AND status = 'approved'`, userID).Scan(&total)
	if err != nil {
		return false, err
	}
	return total == justApproved, nil
}

// rewardReferral flips the referral's rewarded flag conditionally and
// credits the referrer, all inside the caller's transaction. A referral
// already rewarded, or absent, leaves the result untouched.
func rewardReferral(ctx context.Context, tx *sql.Tx, referredID int64, result *domain.ApprovalResult) error {
	var referrerID int64
	var reward decimal.Decimal
	query := `UPDATE referrals SET rewarded = TRUE, rewarded_at = $2
	          WHERE referred_id = $1 AND rewarded = FALSE
	          RETURNING referrer_id, reward`
	err := tx.QueryRowContext(ctx, query, referredID, time.Now().UTC()).Scan(&referrerID, &reward)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reward referral: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE users SET balance = balance + $1 WHERE id = $2`, reward, referrerID)
	if err != nil {
		return fmt.Errorf("credit referrer: %w", err)
	}
	result.ReferrerID = &referrerID
	result.ReferralReward = reward
	result.ReferralPaid = true
	return nil
}

// transitionConflict distinguishes a missing row from one already past its
// pending state.
func transitionConflict(ctx context.Context, tx *sql.Tx, existsQuery string, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, existsQuery, id).Scan(&one)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrAlreadyProcessed
}
