package notification

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/notification/webhook"
	"github.com/wikistars5/wikistars5/internal/notification/webpush"
)

// Factory creates the push senders.
type Factory struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewFactory creates a new notification factory
func NewFactory(logger zerolog.Logger) *Factory {
	return &Factory{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "notification-factory").Logger(),
	}
}

// Webhook returns the webhook sender. appURL makes notice links absolute.
func (f *Factory) Webhook(appURL string) Sender {
	return webhook.New(webhook.Settings{ApplicationURL: appURL}, f.httpClient, f.logger)
}

// WebPush returns the Web Push sender.
func (f *Factory) WebPush(keys webpush.Keys, subscriber string) Sender {
	return webpush.New(webpush.Settings{Keys: keys, Subscriber: subscriber}, f.httpClient, f.logger)
}
