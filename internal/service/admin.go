package service

import (
	"context"
	"fmt"
	"log/slog"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/logger"
	"earnx-backend/internal/repository"
)

type adminService struct {
	users    repository.UserRepository
	stats    repository.StatsRepository
	audit    repository.AuditRepository
	notifier Notifier
	mailer   Mailer
	log      *slog.Logger
}

func NewAdminService(
	users repository.UserRepository,
	stats repository.StatsRepository,
	audit repository.AuditRepository,
	notifier Notifier,
	mailer Mailer,
) AdminService {
	return &adminService{
		users:    users,
		stats:    stats,
		audit:    audit,
		notifier: notifier,
		mailer:   mailer,
		log:      logger.WithService("admin"),
	}
}

func (s *adminService) BlockUser(ctx context.Context, actorID, userID int64, blocked bool) error {
	if err := s.users.SetBlocked(ctx, userID, blocked, actorID); err != nil {
		return err
	}
	s.log.Info("block flag changed", "user_id", userID, "blocked", blocked)
	if blocked {
		_ = s.notifier.Notify(ctx, userID, "Your account has been blocked. Contact support if you believe this is a mistake.")
	} else {
		_ = s.notifier.Notify(ctx, userID, "Your account has been unblocked. Welcome back.")
	}
	return nil
}

func (s *adminService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.stats.Collect(ctx)
}

func (s *adminService) Broadcast(ctx context.Context, actorID int64, message string) (int32, int32, error) {
	if message == "" {
		return 0, 0, fmt.Errorf("%w: empty broadcast message", domain.ErrInvalidInput)
	}
	ids, err := s.users.ListActiveIDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	var sent, failed int32
	for _, id := range ids {
		if err := s.notifier.Broadcast(ctx, id, message); err != nil {
			failed++
			continue
		}
		sent++
	}

	s.log.Info("broadcast finished", "sent", sent, "failed", failed)
	entry := &domain.AuditEntry{
		Action:  domain.AuditActionBroadcast,
		ActorID: actorID,
		Detail:  fmt.Sprintf("sent %d, failed %d", sent, failed),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Error("failed to record broadcast", "error", err)
	}
	return sent, failed, nil
}

func (s *adminService) AuditLog(ctx context.Context, page int32) ([]domain.AuditEntry, int32, error) {
	page = clampPage(page)
	return s.audit.List(ctx, page, domain.PageSize)
}

func (s *adminService) ReconcileBalances(ctx context.Context, actorID int64) ([]domain.ReconciliationDrift, error) {
	drifts, err := s.stats.ReconcileBalances(ctx)
	if err != nil {
		return nil, err
	}

	entry := &domain.AuditEntry{
		Action:  domain.AuditActionReconcile,
		ActorID: actorID,
		Detail:  fmt.Sprintf("%d drifted balances", len(drifts)),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Error("failed to record reconciliation", "error", err)
	}

	if len(drifts) > 0 {
		s.log.Warn("balance drift detected", "count", len(drifts))
		_ = s.mailer.SendAdminAlert(ctx, "Balance reconciliation drift",
			fmt.Sprintf("%d users have balances that disagree with the event log.", len(drifts)))
	}
	return drifts, nil
}
