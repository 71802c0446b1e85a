package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
	"github.com/wikistars5/wikistars5/internal/websocket"
)

var (
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrSubscriptionNotFound  = errors.New("push subscription not found")
	ErrDuplicateSubscription = errors.New("push subscription already exists")
	ErrInvalidSubscription   = errors.New("invalid push subscription")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	pushTimeout     = 30 * time.Second
	maxErrorLen     = 500
)

// Service stores inbox entries and push subscriptions and fans notices out
// to them.
type Service struct {
	db      *sql.DB
	queries *sqlc.Queries
	hub     *websocket.Hub
	senders map[SubscriptionType]Sender
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewService creates a new notification service. hub may be nil.
func NewService(db *sql.DB, hub *websocket.Hub, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		queries: sqlc.New(db),
		hub:     hub,
		senders: make(map[SubscriptionType]Sender),
		logger:  logger.With().Str("component", "notification").Logger(),
	}
}

// RegisterSender adds the delivery channel for one subscription type.
func (s *Service) RegisterSender(sender Sender) {
	s.senders[sender.Type()] = sender
}

// Notify stores the notice in the user's inbox, pushes it to their open
// websocket connections and delivers it to every enabled push subscription
// in the background. Failures are logged, never returned.
func (s *Service) Notify(ctx context.Context, n Notice) {
	item, err := s.createInbox(ctx, n)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", n.UserID).Str("type", string(n.Type)).Msg("Failed to store notification")
		return
	}
	if s.hub != nil {
		s.hub.SendToUser(n.UserID, websocket.EventInboxCreated, item)
	}

	subs, err := s.queries.ListEnabledPushSubscriptions(ctx, n.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", n.UserID).Msg("Failed to list push subscriptions")
		return
	}
	if len(subs) == 0 {
		return
	}

	n.CreatedAt = item.CreatedAt
	s.logger.Debug().Int64("userId", n.UserID).Str("type", string(n.Type)).Int("count", len(subs)).Msg("Dispatching push notification")

	pushCtx := context.WithoutCancel(ctx)
	for _, row := range subs {
		sub := rowToSubscription(row)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sendCtx, cancel := context.WithTimeout(pushCtx, pushTimeout)
			defer cancel()
			if err := s.deliver(sendCtx, sub, n); err != nil {
				s.logger.Warn().Err(err).Str("subscriptionId", sub.ID).Str("type", string(sub.Type)).Msg("Push notification failed")
			}
		}()
	}
}

// Wait blocks until background push deliveries have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) deliver(ctx context.Context, sub Subscription, n Notice) error {
	sender, ok := s.senders[sub.Type]
	if !ok {
		return fmt.Errorf("no sender for %s subscriptions", sub.Type)
	}

	err := sender.Send(ctx, sub, n)
	if err != nil {
		s.recordFailure(ctx, sub.ID, err)
	}
	return err
}

// recordFailure stores the last error. Endpoints the push service reports as
// gone are disabled.
func (s *Service) recordFailure(ctx context.Context, id string, sendErr error) {
	var gone *GoneError
	enabled := !errors.As(sendErr, &gone)

	msg := sendErr.Error()
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	if err := s.queries.RecordPushFailure(ctx, sqlc.RecordPushFailureParams{
		LastError: sql.NullString{String: msg, Valid: true},
		Enabled:   enabled,
		ID:        id,
	}); err != nil {
		s.logger.Warn().Err(err).Str("subscriptionId", id).Msg("Failed to record push failure")
	}
	if !enabled {
		s.logger.Info().Str("subscriptionId", id).Msg("Disabled push subscription whose endpoint is gone")
	}
}

func (s *Service) createInbox(ctx context.Context, n Notice) (*InboxItem, error) {
	row, err := s.queries.CreateNotification(ctx, sqlc.CreateNotificationParams{
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		FigureID:  sql.NullString{String: n.FigureID, Valid: n.FigureID != ""},
		CommentID: sql.NullInt64{Int64: n.CommentID, Valid: n.CommentID != 0},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return rowToInbox(row), nil
}

// NotifiedSince reports whether the user already received a notice of this
// type about this figure within the window.
func (s *Service) NotifiedSince(ctx context.Context, userID int64, t NoticeType, figureID string, window time.Duration) (bool, error) {
	n, err := s.queries.CountNotificationsOfTypeSince(ctx, sqlc.CountNotificationsOfTypeSinceParams{
		UserID:   userID,
		Type:     string(t),
		FigureID: sql.NullString{String: figureID, Valid: figureID != ""},
		Modifier: fmt.Sprintf("-%d seconds", int64(window.Seconds())),
	})
	if err != nil {
		return false, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n > 0, nil
}

// List returns a page of the user's inbox, newest first.
func (s *Service) List(ctx context.Context, userID int64, page, pageSize int) (*InboxPage, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}

	rows, err := s.queries.ListNotifications(ctx, sqlc.ListNotificationsParams{
		UserID: userID,
		Limit:  int64(pageSize),
		Offset: int64((page - 1) * pageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	total, err := s.queries.CountNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]*InboxItem, len(rows))
	for i, r := range rows {
		items[i] = rowToInbox(r)
	}
	return &InboxPage{Items: items, Total: total, Unread: unread, Page: page, PageSize: pageSize}, nil
}

// UnreadCount returns the number of unread inbox entries.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.queries.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the user's entries as read.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	n, err := s.queries.MarkNotificationRead(ctx, sqlc.MarkNotificationReadParams{ID: id, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every entry of the user as read and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.queries.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

// Cleanup deletes read entries older than maxAge.
func (s *Service) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.queries.DeleteReadNotificationsBefore(ctx, fmt.Sprintf("-%d seconds", int64(maxAge.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up notifications: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int64("deleted", n).Msg("Cleaned up read notifications")
	}
	return n, nil
}

// Subscribe registers a push endpoint for the user.
func (s *Service) Subscribe(ctx context.Context, userID int64, input SubscribeInput) (*Subscription, error) {
	if err := validateSubscription(input); err != nil {
		return nil, err
	}

	row, err := s.queries.CreatePushSubscription(ctx, sqlc.CreatePushSubscriptionParams{
		ID:       uuid.NewString(),
		UserID:   userID,
		Type:     string(input.Type),
		Endpoint: input.Endpoint,
		P256dh:   input.Keys.P256dh,
		Auth:     input.Keys.Auth,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateSubscription
		}
		return nil, fmt.Errorf("failed to create push subscription: %w", err)
	}

	sub := rowToSubscription(row)
	s.logger.Info().Int64("userId", userID).Str("type", string(sub.Type)).Str("subscriptionId", sub.ID).Msg("Push subscription added")
	return &sub, nil
}

// Subscriptions lists the user's push endpoints.
func (s *Service) Subscriptions(ctx context.Context, userID int64) ([]Subscription, error) {
	rows, err := s.queries.ListPushSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list push subscriptions: %w", err)
	}
	out := make([]Subscription, len(rows))
	for i, r := range rows {
		out[i] = rowToSubscription(r)
	}
	return out, nil
}

// Unsubscribe removes one of the user's push endpoints.
func (s *Service) Unsubscribe(ctx context.Context, userID int64, id string) error {
	n, err := s.queries.DeletePushSubscription(ctx, sqlc.DeletePushSubscriptionParams{ID: id, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	if n == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Test sends a test notice synchronously to every subscription of the user,
// including disabled ones, and reports each outcome.
func (s *Service) Test(ctx context.Context, userID int64) ([]TestResult, error) {
	subs, err := s.Subscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	notice := Notice{
		UserID:    userID,
		Type:      NoticeTest,
		Title:     "WikiStars5",
		Message:   "Test notification from WikiStars5",
		CreatedAt: time.Now().UTC(),
	}
	results := make([]TestResult, 0, len(subs))
	for _, sub := range subs {
		res := TestResult{SubscriptionID: sub.ID, Success: true, Message: "Notification test successful"}
		if err := s.deliver(ctx, sub, notice); err != nil {
			res.Success = false
			res.Message = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

func validateSubscription(in SubscribeInput) error {
	u, err := url.Parse(in.Endpoint)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: endpoint must be an http(s) URL", ErrInvalidSubscription)
	}
	switch in.Type {
	case SubscriptionWebPush:
		if in.Keys.P256dh == "" || in.Keys.Auth == "" {
			return fmt.Errorf("%w: webpush subscriptions need p256dh and auth keys", ErrInvalidSubscription)
		}
	case SubscriptionWebhook:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidSubscription, in.Type)
	}
	return nil
}

func rowToInbox(row *sqlc.Notification) *InboxItem {
	item := &InboxItem{
		ID:        row.ID,
		Type:      NoticeType(row.Type),
		Title:     row.Title,
		Message:   row.Message,
		FigureID:  row.FigureID.String,
		CommentID: row.CommentID.Int64,
		Read:      row.Read,
	}
	if row.CreatedAt.Valid {
		item.CreatedAt = row.CreatedAt.Time
	}
	return item
}

func rowToSubscription(row *sqlc.PushSubscription) Subscription {
	sub := Subscription{
		ID:        row.ID,
		UserID:    row.UserID,
		Type:      SubscriptionType(row.Type),
		Endpoint:  row.Endpoint,
		P256dh:    row.P256dh,
		Auth:      row.Auth,
		Enabled:   row.Enabled,
		LastError: row.LastError.String,
	}
	if row.LastErrorAt.Valid {
		t := row.LastErrorAt.Time
		sub.LastErrorAt = &t
	}
	if row.CreatedAt.Valid {
		sub.CreatedAt = row.CreatedAt.Time
	}
	return sub
}
