package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/notification/types"
)

const instanceName = "WikiStars5"

// Settings contains webhook-wide configuration.
type Settings struct {
	// ApplicationURL is prepended to relative notice URLs.
	ApplicationURL string            `json:"applicationUrl,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
}

// Notifier POSTs notices as JSON to the subscription's endpoint.
type Notifier struct {
	settings   Settings
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new webhook notifier
func New(settings Settings, httpClient *http.Client, logger zerolog.Logger) *Notifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Notifier{
		settings:   settings,
		httpClient: httpClient,
		logger:     logger.With().Str("notifier", "webhook").Logger(),
	}
}

func (n *Notifier) Type() types.SubscriptionType {
	return types.SubscriptionWebhook
}

func (n *Notifier) Send(ctx context.Context, sub types.Subscription, notice types.Notice) error {
	ts := notice.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	payload := Payload{
		EventType:    string(notice.Type),
		InstanceName: instanceName,
		Title:        notice.Title,
		Message:      notice.Message,
		FigureID:     notice.FigureID,
		CommentID:    notice.CommentID,
		URL:          n.absoluteURL(notice.URL),
		Timestamp:    ts,
	}
	return n.send(ctx, sub.Endpoint, payload)
}

func (n *Notifier) absoluteURL(path string) string {
	if path == "" || n.settings.ApplicationURL == "" || !strings.HasPrefix(path, "/") {
		return path
	}
	return strings.TrimRight(n.settings.ApplicationURL, "/") + path
}

func (n *Notifier) send(ctx context.Context, endpoint string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.settings.Headers {
		req.Header.Set(key, value)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return &types.GoneError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug().Str("event", payload.EventType).Msg("webhook delivered")
	return nil
}

// Payload is the webhook request body
type Payload struct {
	EventType    string    `json:"eventType"`
	InstanceName string    `json:"instanceName"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	FigureID     string    `json:"figureId,omitempty"`
	CommentID    int64     `json:"commentId,omitempty"`
	URL          string    `json:"url,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
