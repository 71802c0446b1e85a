// Package types contains shared type definitions for notification packages.
package types

import (
	"context"
	"fmt"
	"time"
)

// SubscriptionType identifies a push delivery channel.
type SubscriptionType string

const (
	SubscriptionWebPush SubscriptionType = "webpush"
	SubscriptionWebhook SubscriptionType = "webhook"
)

// NoticeType identifies why a user is being notified.
type NoticeType string

const (
	NoticeCommentReply   NoticeType = "comment_reply"
	NoticeStreakReminder NoticeType = "streak_reminder"
	NoticeTest           NoticeType = "test"
)

// Notice is one message for one user.
type Notice struct {
	UserID    int64      `json:"userId"`
	Type      NoticeType `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	FigureID  string     `json:"figureId,omitempty"`
	CommentID int64      `json:"commentId,omitempty"`
	// URL is the app path opened when the user taps the notification.
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscription is a user's push endpoint.
type Subscription struct {
	ID       string           `json:"id"`
	UserID   int64            `json:"userId"`
	Type     SubscriptionType `json:"type"`
	Endpoint string           `json:"endpoint"`
	P256dh   string           `json:"p256dh,omitempty"`
	Auth     string           `json:"auth,omitempty"`
	Enabled  bool             `json:"enabled"`
	// LastError is the most recent delivery failure, if any.
	LastError   string     `json:"lastError,omitempty"`
	LastErrorAt *time.Time `json:"lastErrorAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Sender delivers a notice to one subscription.
type Sender interface {
	Type() SubscriptionType
	Send(ctx context.Context, sub Subscription, notice Notice) error
}

// GoneError reports that the endpoint no longer exists and the subscription
// should be disabled.
type GoneError struct {
	StatusCode int
}

func (e *GoneError) Error() string {
	return fmt.Sprintf("push endpoint is gone (status %d)", e.StatusCode)
}
