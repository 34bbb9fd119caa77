package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository"
)

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	w.Status = domain.WithdrawalStatusPending
	w.RequestedAt = time.Now().UTC()
	return runTx(ctx, r.db, func(tx *sql.Tx) error {
		// The debit condition doubles as the balance check. Concurrent
		// requests each reserve against the live balance; the one that
		// finds it short is the one that fails.
		var id int64
		debit := `UPDATE users SET balance = balance - $1
		          WHERE id = $2 AND balance >= $1
		          RETURNING id`
		err := tx.QueryRowContext(ctx, debit, w.GrossAmount, w.UserID).Scan(&id)
		if err == sql.ErrNoRows {
			return domain.ErrInsufficientBalance
		}
		if err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		insert := `INSERT INTO withdrawals (user_id, gross_amount, fee, net_amount, method, destination, status, requested_at)
		           VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
		err = tx.QueryRowContext(ctx, insert,
			w.UserID, w.GrossAmount, w.Fee, w.NetAmount, w.Method, w.Destination,
			w.Status, w.RequestedAt).Scan(&w.ID)
		if err != nil {
			return fmt.Errorf("insert withdrawal: %w", err)
		}
		return nil
	})
}

const withdrawalColumns = `id, user_id, gross_amount, fee, net_amount, method, destination, status,
	requested_at, processed_at, COALESCE(rejection_reason, '')`

func scanWithdrawal(scan func(dest ...any) error) (*domain.Withdrawal, error) {
	w := &domain.Withdrawal{}
	var processedAt sql.NullTime
	err := scan(&w.ID, &w.UserID, &w.GrossAmount, &w.Fee, &w.NetAmount, &w.Method,
		&w.Destination, &w.Status, &w.RequestedAt, &processedAt, &w.RejectionReason)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if processedAt.Valid {
		t := processedAt.Time
		w.ProcessedAt = &t
	}
	return w, nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`
	return scanWithdrawal(r.db.QueryRowContext(ctx, query, id).Scan)
}

func (r *withdrawalRepository) CountOnDay(ctx context.Context, userID int64, day time.Time) (int32, error) {
	// Rejected requests refund and do not consume the daily allowance.
	var count int32
	query := `SELECT count(*) FROM withdrawals
	          WHERE user_id = $1 AND status IN ('pending', 'approved')
	          AND requested_at >= $2 AND requested_at < $3`
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	err := r.db.QueryRowContext(ctx, query, userID, start, start.Add(24*time.Hour)).Scan(&count)
	return count, err
}

func (r *withdrawalRepository) CountPending(ctx context.Context, userID int64) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM withdrawals WHERE user_id = $1 AND status = 'pending'`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *withdrawalRepository) Approve(ctx context.Context, id int64, actorID int64) (*domain.Withdrawal, error) {
	now := time.Now().UTC()
	w := &domain.Withdrawal{ID: id, Status: domain.WithdrawalStatusApproved, ProcessedAt: &now}

	err := runTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `UPDATE withdrawals SET status = 'approved', processed_at = $1
		          WHERE id = $2 AND status = 'pending'
		          RETURNING user_id, gross_amount, fee, net_amount, method, destination, requested_at`
		err := tx.QueryRowContext(ctx, query, now, id).Scan(&w.UserID, &w.GrossAmount,
			&w.Fee, &w.NetAmount, &w.Method, &w.Destination, &w.RequestedAt)
		if err == sql.ErrNoRows {
			return transitionConflict(ctx, tx, `SELECT 1 FROM withdrawals WHERE id = $1`, id)
		}
		if err != nil {
			return fmt.Errorf("approve withdrawal: %w", err)
		}

		// Funds were reserved at request time; approval just finalizes.
		detail := fmt.Sprintf("withdrawal #%d - %s net via %s", id, w.NetAmount.StringFixed(2), w.Method)
		return appendAudit(ctx, tx, domain.AuditActionApproveWithdrawal, actorID, &w.UserID, detail)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *withdrawalRepository) Reject(ctx context.Context, id int64, reason string, actorID int64) (*domain.Withdrawal, error) {
	now := time.Now().UTC()
	w := &domain.Withdrawal{ID: id, Status: domain.WithdrawalStatusRejected, ProcessedAt: &now, RejectionReason: reason}

	err := runTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `UPDATE withdrawals SET status = 'rejected', processed_at = $1, rejection_reason = $2
		          WHERE id = $3 AND status = 'pending'
		          RETURNING user_id, gross_amount, fee, net_amount, method, destination, requested_at`
		err := tx.QueryRowContext(ctx, query, now, reason, id).Scan(&w.UserID, &w.GrossAmount,
			&w.Fee, &w.NetAmount, &w.Method, &w.Destination, &w.RequestedAt)
		if err == sql.ErrNoRows {
			return transitionConflict(ctx, tx, `SELECT 1 FROM withdrawals WHERE id = $1`, id)
		}
		if err != nil {
			return fmt.Errorf("reject withdrawal: %w", err)
		}

		// Refund the full reserved amount, fee included.
		_, err = tx.ExecContext(ctx, `UPDATE users SET balance = balance + $1 WHERE id = $2`,
			w.GrossAmount, w.UserID)
		if err != nil {
			return fmt.Errorf("refund balance: %w", err)
		}

		detail := fmt.Sprintf("withdrawal #%d - %s refunded - %s", id, w.GrossAmount.StringFixed(2), reason)
		return appendAudit(ctx, tx, domain.AuditActionRejectWithdrawal, actorID, &w.UserID, detail)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals
	          WHERE user_id = $1 ORDER BY requested_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ws []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		ws = append(ws, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM withdrawals WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}
	return ws, count, nil
}

func (r *withdrawalRepository) OldestPending(ctx context.Context) (*domain.PendingWithdrawal, error) {
	query := `SELECT w.id, w.user_id, w.gross_amount, w.fee, w.net_amount, w.method, w.destination,
	                 w.status, w.requested_at, w.processed_at, COALESCE(w.rejection_reason, ''),
	                 COALESCE(u.username, ''), COALESCE(u.first_name, '')
	          FROM withdrawals w JOIN users u ON w.user_id = u.id
	          WHERE w.status = 'pending'
	          ORDER BY w.requested_at LIMIT 1`
	p := &domain.PendingWithdrawal{}
	var processedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query).Scan(&p.ID, &p.UserID, &p.GrossAmount, &p.Fee,
		&p.NetAmount, &p.Method, &p.Destination, &p.Status, &p.RequestedAt, &processedAt,
		&p.RejectionReason, &p.Username, &p.FirstName)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if processedAt.Valid {
		t := processedAt.Time
		p.ProcessedAt = &t
	}
	return p, nil
}
