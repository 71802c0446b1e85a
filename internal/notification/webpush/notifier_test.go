package webpush

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/notification/types"
)

// browserSubscription fabricates the key material a browser would hand out.
func browserSubscription(t *testing.T, endpoint string) types.Subscription {
	t.Helper()
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	secret := make([]byte, 16)
	_, err = rand.Read(secret)
	require.NoError(t, err)

	return types.Subscription{
		ID:       "sub-1",
		Type:     types.SubscriptionWebPush,
		Endpoint: endpoint,
		P256dh:   base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(secret),
		Enabled:  true,
	}
}

type pushCapture struct {
	mu      sync.Mutex
	headers http.Header
	bodyLen int
}

func pushServer(t *testing.T, status int, capture *pushCapture) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capture.mu.Lock()
		capture.headers = r.Header.Clone()
		capture.bodyLen = len(body)
		capture.mu.Unlock()
		w.WriteHeader(status)
	}))
}

func TestGenerateKeys(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)
	assert.NotEmpty(t, keys.PublicKey)
	assert.NotEmpty(t, keys.PrivateKey)
	assert.NotEqual(t, keys.PublicKey, keys.PrivateKey)
}

func TestNotifier_Send(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)

	capture := &pushCapture{}
	server := pushServer(t, http.StatusCreated, capture)
	defer server.Close()

	n := New(Settings{Keys: keys, Subscriber: "admin@wikistars5.example"}, server.Client(), zerolog.Nop())
	assert.Equal(t, types.SubscriptionWebPush, n.Type())

	err = n.Send(context.Background(), browserSubscription(t, server.URL), types.Notice{
		UserID:   1,
		Type:     types.NoticeStreakReminder,
		Title:    "Keep your streak",
		Message:  "Comment on Adele today",
		FigureID: "adele",
	})
	require.NoError(t, err)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	assert.Equal(t, "aes128gcm", capture.headers.Get("Content-Encoding"))
	assert.Contains(t, capture.headers.Get("Authorization"), "vapid")
	assert.Equal(t, "86400", capture.headers.Get("TTL"))
	assert.Greater(t, capture.bodyLen, 0)
}

func TestNotifier_Gone(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)

	server := pushServer(t, http.StatusGone, &pushCapture{})
	defer server.Close()

	n := New(Settings{Keys: keys, Subscriber: "admin@wikistars5.example"}, server.Client(), zerolog.Nop())
	err = n.Send(context.Background(), browserSubscription(t, server.URL), types.Notice{Type: types.NoticeTest, Title: "t"})

	var gone *types.GoneError
	require.True(t, errors.As(err, &gone), "got %v", err)
	assert.Equal(t, http.StatusGone, gone.StatusCode)
}

func TestNotifier_MissingKeys(t *testing.T) {
	n := New(Settings{}, nil, zerolog.Nop())
	err := n.Send(context.Background(), types.Subscription{Endpoint: "http://127.0.0.1:1"}, types.Notice{})
	assert.Error(t, err)
}

func TestTag(t *testing.T) {
	assert.Equal(t, "comment_reply", tag(types.Notice{Type: types.NoticeCommentReply}))
	assert.Equal(t, "streak_reminder:adele", tag(types.Notice{Type: types.NoticeStreakReminder, FigureID: "adele"}))
}
