package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const relaySuccessMessage = "Scholarship link sent successfully!"

// Relay forwards a scholarship link to the automation webhook.
type Relay interface {
	Send(ctx context.Context, link string) error
}

// RelayError reports a webhook that answered with a non-2xx status.
type RelayError struct {
	StatusCode int
	Status     string
}

func (e *RelayError) Error() string {
	return "Webhook request failed: " + e.Status
}

type relayPayload struct {
	ScholarshipLink string `json:"scholarship_link"`
}

type webhookRelay struct {
	url    string
	client *http.Client
}

func NewWebhookRelay(url string, timeout time.Duration) Relay {
	return &webhookRelay{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

func (r *webhookRelay) Send(ctx context.Context, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return invalid("Scholarship link is required")
	}

	if r.url == "" {
		return ErrRelayNotConfigured
	}

	body, err := json.Marshal(relayPayload{ScholarshipLink: link})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("webhook request failed")
		return fmt.Errorf("webhook request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		status := http.StatusText(resp.StatusCode)
		if status == "" {
			status = resp.Status
		}

		log.Ctx(ctx).Error().Int("status", resp.StatusCode).Msg("webhook rejected scholarship link")

		return &RelayError{StatusCode: resp.StatusCode, Status: status}
	}

	return nil
}
