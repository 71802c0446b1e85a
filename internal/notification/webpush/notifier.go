// Package webpush delivers notices to browsers through the Web Push protocol
// with VAPID authentication.
package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	webpushgo "github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/notification/types"
)

const defaultTTL = 24 * 60 * 60

// Keys is a VAPID key pair, base64url encoded.
type Keys struct {
	PublicKey  string
	PrivateKey string
}

// GenerateKeys creates a fresh VAPID key pair.
func GenerateKeys() (Keys, error) {
	priv, pub, err := webpushgo.GenerateVAPIDKeys()
	if err != nil {
		return Keys{}, fmt.Errorf("failed to generate VAPID keys: %w", err)
	}
	return Keys{PublicKey: pub, PrivateKey: priv}, nil
}

// Settings configures the sender.
type Settings struct {
	Keys Keys
	// Subscriber is the contact (mailto: or https:) sent to push services.
	Subscriber string
	TTL        int
}

// Notifier sends encrypted push messages.
type Notifier struct {
	settings   Settings
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new Web Push notifier.
func New(settings Settings, httpClient *http.Client, logger zerolog.Logger) *Notifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if settings.TTL <= 0 {
		settings.TTL = defaultTTL
	}
	return &Notifier{
		settings:   settings,
		httpClient: httpClient,
		logger:     logger.With().Str("notifier", "webpush").Logger(),
	}
}

func (n *Notifier) Type() types.SubscriptionType {
	return types.SubscriptionWebPush
}

// Message is the JSON the service worker receives.
type Message struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	URL     string `json:"url,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Figure  string `json:"figureId,omitempty"`
	Comment int64  `json:"commentId,omitempty"`
}

func (n *Notifier) Send(ctx context.Context, sub types.Subscription, notice types.Notice) error {
	if sub.P256dh == "" || sub.Auth == "" {
		return errors.New("subscription is missing encryption keys")
	}

	msg := Message{
		Type:    string(notice.Type),
		Title:   notice.Title,
		Body:    notice.Message,
		URL:     notice.URL,
		Tag:     tag(notice),
		Figure:  notice.FigureID,
		Comment: notice.CommentID,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	resp, err := webpushgo.SendNotificationWithContext(ctx, body, &webpushgo.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpushgo.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpushgo.Options{
		HTTPClient:      n.httpClient,
		Subscriber:      n.settings.Subscriber,
		VAPIDPublicKey:  n.settings.Keys.PublicKey,
		VAPIDPrivateKey: n.settings.Keys.PrivateKey,
		TTL:             n.settings.TTL,
		Urgency:         webpushgo.UrgencyNormal,
	})
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return &types.GoneError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push service returned status %d: %s", resp.StatusCode, detail)
	}

	n.logger.Debug().Str("event", msg.Type).Int64("userId", notice.UserID).Msg("push delivered")
	return nil
}

// tag collapses repeated notices of the same kind on the device.
func tag(n types.Notice) string {
	if n.FigureID == "" {
		return string(n.Type)
	}
	return string(n.Type) + ":" + n.FigureID
}
