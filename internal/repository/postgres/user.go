package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, COALESCE(username, ''), COALESCE(first_name, ''), balance, total_submitted,
	total_approved, is_blocked, referrer_id, COALESCE(upi_id, ''), COALESCE(usdt_address, ''),
	channel_bonus_claimed, notifications_enabled, last_submit_time, joined_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var lastSubmit sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.Balance, &u.TotalSubmitted,
		&u.TotalApproved, &u.IsBlocked, &u.ReferrerID, &u.UPIID, &u.USDTAddress,
		&u.ChannelBonusClaimed, &u.NotificationsEnabled, &lastSubmit, &u.JoinedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if lastSubmit.Valid {
		t := lastSubmit.Time
		u.LastSubmitTime = &t
	}
	return u, nil
}

func (r *userRepository) GetOrCreate(ctx context.Context, u *domain.User) (bool, error) {
	u.JoinedAt = time.Now().UTC()
	query := `INSERT INTO users (id, username, first_name, referrer_id, joined_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.FirstName, u.ReferrerID, u.JoinedAt)
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		existing, err := r.GetByID(ctx, u.ID)
		if err != nil {
			return false, err
		}
		*u = *existing
		return false, nil
	}
	u.Balance = decimal.Zero
	u.NotificationsEnabled = true
	return true, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) SetUPI(ctx context.Context, id int64, upiID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET upi_id = $1 WHERE id = $2`, upiID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *userRepository) SetUSDTAddress(ctx context.Context, id int64, address string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET usdt_address = $1 WHERE id = $2`, address, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *userRepository) SetNotificationsEnabled(ctx context.Context, id int64, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET notifications_enabled = $1 WHERE id = $2`, enabled, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *userRepository) NotificationsEnabled(ctx context.Context, id int64) (bool, error) {
	var enabled bool
	err := r.db.QueryRowContext(ctx, `SELECT notifications_enabled FROM users WHERE id = $1`, id).Scan(&enabled)
	if err != nil {
		return false, mapNotFound(err)
	}
	return enabled, nil
}

func (r *userRepository) SetBlocked(ctx context.Context, id int64, blocked bool, actorID int64) error {
	return runTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET is_blocked = $1 WHERE id = $2`, blocked, id)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}
		action := domain.AuditActionBlockUser
		if !blocked {
			action = domain.AuditActionUnblockUser
		}
		return appendAudit(ctx, tx, action, actorID, &id, "")
	})
}

func (r *userRepository) ClaimChannelBonus(ctx context.Context, id int64, bonus decimal.Decimal) error {
	// One-shot conditional credit: only claims that find the flag unset
	// take effect.
	query := `UPDATE users
	          SET balance = balance + $1, channel_bonus_claimed = TRUE, channel_bonus_amount = $1
	          WHERE id = $2 AND channel_bonus_claimed = FALSE
	          RETURNING id`
	var claimed int64
	err := r.db.QueryRowContext(ctx, query, bonus, id).Scan(&claimed)
	if err == sql.ErrNoRows {
		if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
			return lookupErr
		}
		return domain.ErrAlreadyProcessed
	}
	return err
}

func (r *userRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE is_blocked = FALSE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// requireRow converts a zero-row update into domain.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
