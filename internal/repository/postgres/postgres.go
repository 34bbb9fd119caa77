package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.SubmissionRepository
	repository.WithdrawalRepository
	repository.ReferralRepository
	repository.AuditRepository
	repository.StatsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		UserRepository:       NewUserRepository(db),
		SubmissionRepository: NewSubmissionRepository(db),
		WithdrawalRepository: NewWithdrawalRepository(db),
		ReferralRepository:   NewReferralRepository(db),
		AuditRepository:      NewAuditRepository(db),
		StatsRepository:      NewStatsRepository(db),
	}
}

// runTx executes fn inside a transaction, rolling back on error. Workflow
// methods use it so a conditional transition and its balance/audit effects
// commit or vanish together.
func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

// appendAudit writes an audit entry inside the caller's transaction so the
// trail can never drift from the ledger.
func appendAudit(ctx context.Context, tx *sql.Tx, action string, actorID int64, targetUserID *int64, detail string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO audit_log (action, actor_id, target_user_id, detail, created_at) VALUES ($1, $2, $3, $4, $5)`,
		action, actorID, targetUserID, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// mapNotFound translates sql.ErrNoRows into the domain error.
func mapNotFound(err error) error {
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	return err
}
