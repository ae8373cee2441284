package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Notifier delivers an alert to downstream channels (dashboards, push).
// Delivery transport is the collaborator's concern; an error here feeds the
// dispatcher's retry accounting and never blocks audit recording.
type Notifier interface {
	Deliver(ctx context.Context, a Alert) error
}

// LogNotifier writes alerts to the application log. Default notifier for
// dev environments and the fallback when no webhook is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Deliver(ctx context.Context, a Alert) error {
	n.logger.WarnContext(ctx, "security alert",
		"alert_id", a.ID,
		"type", a.Type,
		"message", a.Message,
		"gate_id", a.GateID,
		"entry_id", a.EntryID,
	)
	return nil
}

// WebhookNotifier POSTs alerts as JSON to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type webhookPayload struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	PersonID  string    `json:"person_id,omitempty"`
	Plate     string    `json:"license_plate,omitempty"`
	GateID    string    `json:"gate_id"`
	EntryID   int64     `json:"audit_entry_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *WebhookNotifier) Deliver(ctx context.Context, a Alert) error {
	body, err := json.Marshal(webhookPayload{
		ID:        a.ID,
		Type:      string(a.Type),
		Message:   a.Message,
		PersonID:  a.PersonID.String(),
		Plate:     a.Plate.String(),
		GateID:    a.GateID.String(),
		EntryID:   a.EntryID,
		CreatedAt: a.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("deliver alert: webhook returned %d", resp.StatusCode)
	}
	return nil
}
