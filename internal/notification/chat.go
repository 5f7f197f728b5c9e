package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"homeserve_backend/platform/config"
	"homeserve_backend/platform/logger"
)

// ChatClient posts plain-text messages to a Google-Chat-style incoming
// webhook. A nil client silently drops messages.
type ChatClient struct {
	defaultURL string
	http       *http.Client
	log        *logger.Logger
}

type chatMessage struct {
	Text string `json:"text"`
}

// NewChatClient creates a chat webhook client. Per-recipient URLs work even
// without a configured default; Send is a no-op when neither is set.
func NewChatClient(cfg config.ChatConfig, log *logger.Logger) *ChatClient {
	return &ChatClient{
		defaultURL: strings.TrimSpace(cfg.GetChatWebhookURL()),
		http:       &http.Client{Timeout: cfg.GetChatTimeout()},
		log:        log,
	}
}

// CanDeliver reports whether a send for the given per-recipient URL would
// reach a webhook, accounting for the configured default fallback. Callers
// tracking delivery outcomes use it to tell a no-op apart from a success.
func (c *ChatClient) CanDeliver(url string) bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(url) != "" || c.defaultURL != ""
}

// Send posts a message to the webhook URL, falling back to the configured
// default when url is empty. No-op when neither is set.
func (c *ChatClient) Send(ctx context.Context, url, text string) error {
	if c == nil {
		return nil
	}
	target := strings.TrimSpace(url)
	if target == "" {
		target = c.defaultURL
	}
	if target == "" {
		return nil
	}

	body, err := json.Marshal(chatMessage{Text: text})
	if err != nil {
		return fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}
