package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"earnx-backend/internal/logger"
)

// SendGridMailer sends operational alerts to the operator's mailbox.
type SendGridMailer struct {
	apiKey     string
	fromEmail  string
	fromName   string
	adminEmail string
	log        *slog.Logger
}

func NewSendGridMailer(apiKey, fromEmail, fromName, adminEmail string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		adminEmail: adminEmail,
		log:        logger.WithService("mail"),
	}
}

func (m *SendGridMailer) SendAdminAlert(ctx context.Context, subject, message string) error {
	if m.apiKey == "" || m.adminEmail == "" {
		// Alerts are optional in development setups.
		return nil
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail("Admin", m.adminEmail)
	html := fmt.Sprintf("<p>%s</p>", message)
	msg := mail.NewSingleEmail(from, subject, to, message, html)

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, msg)
	if err != nil {
		m.log.Warn("alert delivery failed", "subject", subject, "error", err)
		return fmt.Errorf("failed to send alert: %w", err)
	}
	if resp.StatusCode >= 400 {
		m.log.Warn("alert rejected", "subject", subject, "status", resp.StatusCode)
		return fmt.Errorf("sendgrid error: status %d", resp.StatusCode)
	}
	return nil
}
