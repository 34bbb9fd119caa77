package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"earnx-backend/internal/logger"
	"earnx-backend/internal/repository"
)

// TelegramNotifier delivers messages through the Bot API sendMessage
// endpoint. Per-user delivery honors the notification preference stored on
// the user row; broadcasts bypass it.
type TelegramNotifier struct {
	apiBase string
	token   string
	users   repository.UserRepository
	client  *http.Client
	log     *slog.Logger
}

func NewTelegramNotifier(apiBase, token string, users repository.UserRepository) *TelegramNotifier {
	return &TelegramNotifier{
		apiBase: apiBase,
		token:   token,
		users:   users,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger.WithService("telegram"),
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, userID int64, message string) error {
	enabled, err := n.users.NotificationsEnabled(ctx, userID)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	return n.send(ctx, userID, message)
}

func (n *TelegramNotifier) Broadcast(ctx context.Context, userID int64, message string) error {
	return n.send(ctx, userID, message)
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *TelegramNotifier) send(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn("delivery failed", "chat_id", chatID, "error", err)
		return err
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !result.OK {
		n.log.Warn("delivery rejected", "chat_id", chatID, "status", resp.StatusCode,
			"description", result.Description)
		return fmt.Errorf("telegram: %s", result.Description)
	}
	return nil
}
