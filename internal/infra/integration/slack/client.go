// Package slack posts operator alerts to a Slack incoming webhook.
// Delivery is best-effort: failures are logged and counted, never
// propagated to webhook processing.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/http/middleware"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/logger"
)

type Client struct {
	webhookURL string
	http       *http.Client
	log        logger.Logger
}

func NewClient(webhookURL string, log logger.Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Notify sends one message to the alert channel. The returned error is
// informational; callers are expected to ignore it.
func (c *Client) Notify(ctx context.Context, message string) error {
	if c.webhookURL == "" {
		c.log.Error("slack: webhook URL not configured")
		return fmt.Errorf("slack not configured")
	}

	payload := map[string]string{"text": message}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.RecordNotifierFailure("slack")
		c.log.Error("slack: notification failed", "error", err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		middleware.RecordNotifierFailure("slack")
		c.log.Error("slack: webhook failed", "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("slack webhook status %d", resp.StatusCode)
	}

	return nil
}
