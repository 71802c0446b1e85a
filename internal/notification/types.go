package notification

import (
	"time"

	"github.com/wikistars5/wikistars5/internal/notification/types"
)

// Re-export types from the types sub-package
type (
	Notice           = types.Notice
	NoticeType       = types.NoticeType
	Subscription     = types.Subscription
	SubscriptionType = types.SubscriptionType
	Sender           = types.Sender
	GoneError        = types.GoneError
)

// Re-export constants
const (
	NoticeCommentReply   = types.NoticeCommentReply
	NoticeStreakReminder = types.NoticeStreakReminder
	NoticeTest           = types.NoticeTest

	SubscriptionWebPush = types.SubscriptionWebPush
	SubscriptionWebhook = types.SubscriptionWebhook
)

// InboxItem is an in-app notification.
type InboxItem struct {
	ID        int64      `json:"id"`
	Type      NoticeType `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	FigureID  string     `json:"figureId,omitempty"`
	CommentID int64      `json:"commentId,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}

// InboxPage is one page of a user's inbox.
type InboxPage struct {
	Items    []*InboxItem `json:"items"`
	Total    int64        `json:"total"`
	Unread   int64        `json:"unread"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

// SubscribeInput registers a push endpoint. Keys are required for webpush.
type SubscribeInput struct {
	Type     SubscriptionType `json:"type"`
	Endpoint string           `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// TestResult reports a delivery attempt to one subscription.
type TestResult struct {
	SubscriptionID string `json:"subscriptionId"`
	Success        bool   `json:"success"`
	Message        string `json:"message"`
}
