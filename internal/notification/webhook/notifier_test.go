package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/notification/types"
)

type capturedRequest struct {
	Payload Payload
	Headers http.Header
	Method  string
}

func setupTestServer(t *testing.T, captured *capturedRequest, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Headers = r.Header
		if err := json.NewDecoder(r.Body).Decode(&captured.Payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(status)
	}))
}

func testNotice() types.Notice {
	return types.Notice{
		UserID:    3,
		Type:      types.NoticeCommentReply,
		Title:     "bob replied to you",
		Message:   "On Adele: totally agree",
		FigureID:  "adele",
		CommentID: 42,
		URL:       "/figures/adele?comment=41",
	}
}

func TestNotifier_Type(t *testing.T) {
	n := New(Settings{}, nil, zerolog.Nop())
	if n.Type() != types.SubscriptionWebhook {
		t.Errorf("expected type %s, got %s", types.SubscriptionWebhook, n.Type())
	}
}

func TestNotifier_Send(t *testing.T) {
	var captured capturedRequest
	server := setupTestServer(t, &captured, http.StatusOK)
	defer server.Close()

	n := New(Settings{
		ApplicationURL: "https://wikistars5.example/",
		Headers:        map[string]string{"X-Token": "secret"},
	}, http.DefaultClient, zerolog.Nop())

	sub := types.Subscription{ID: "s1", Type: types.SubscriptionWebhook, Endpoint: server.URL}
	if err := n.Send(context.Background(), sub, testNotice()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if captured.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", captured.Method)
	}
	if captured.Payload.EventType != "comment_reply" {
		t.Errorf("expected event type comment_reply, got %s", captured.Payload.EventType)
	}
	if captured.Payload.InstanceName != "WikiStars5" {
		t.Errorf("expected instance name WikiStars5, got %s", captured.Payload.InstanceName)
	}
	if captured.Payload.URL != "https://wikistars5.example/figures/adele?comment=41" {
		t.Errorf("unexpected url %s", captured.Payload.URL)
	}
	if captured.Payload.CommentID != 42 {
		t.Errorf("expected comment id 42, got %d", captured.Payload.CommentID)
	}
	if captured.Payload.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if got := captured.Headers.Get("X-Token"); got != "secret" {
		t.Errorf("expected custom header, got %q", got)
	}
	if got := captured.Headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("expected JSON content type, got %q", got)
	}
}

func TestNotifier_Gone(t *testing.T) {
	var captured capturedRequest
	server := setupTestServer(t, &captured, http.StatusGone)
	defer server.Close()

	n := New(Settings{}, nil, zerolog.Nop())
	err := n.Send(context.Background(), types.Subscription{Endpoint: server.URL}, testNotice())

	var gone *types.GoneError
	if !errors.As(err, &gone) {
		t.Fatalf("expected GoneError, got %v", err)
	}
	if gone.StatusCode != http.StatusGone {
		t.Errorf("expected status 410, got %d", gone.StatusCode)
	}
}

func TestNotifier_ServerError(t *testing.T) {
	var captured capturedRequest
	server := setupTestServer(t, &captured, http.StatusInternalServerError)
	defer server.Close()

	n := New(Settings{}, nil, zerolog.Nop())
	err := n.Send(context.Background(), types.Subscription{Endpoint: server.URL}, testNotice())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var gone *types.GoneError
	if errors.As(err, &gone) {
		t.Error("500 must not be treated as gone")
	}
}
