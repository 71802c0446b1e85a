package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/notification"
	"github.com/wikistars5/wikistars5/internal/streaks"
	"github.com/wikistars5/wikistars5/internal/testutil"
)

func TestStreakReminder_Run(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")
	tdb.SeedFigure(t, "shakira", "Shakira")

	clock, err := streaks.NewClock("UTC")
	require.NoError(t, err)
	streakSvc := streaks.NewService(tdb.Conn, clock, tdb.Logger)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	_, err = streakSvc.Record(ctx, ana, "shakira", yesterday.AddDate(0, 0, -1))
	require.NoError(t, err)
	_, err = streakSvc.Record(ctx, ana, "shakira", yesterday)
	require.NoError(t, err)
	// A one-day streak is below the reminder minimum.
	_, err = streakSvc.Record(ctx, bob, "shakira", yesterday)
	require.NoError(t, err)

	notifier := notification.NewService(tdb.Conn, nil, tdb.Logger)
	reminder := NewStreakReminder(streakSvc, notifier, 2, tdb.Logger)

	sent, err := reminder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	page, err := notifier.List(ctx, ana, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, notification.NoticeStreakReminder, page.Items[0].Type)
	assert.Equal(t, "Your 2-day streak on Shakira ends tonight", page.Items[0].Title)

	// Running again the same day sends nothing new.
	sent, err = reminder.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	unread, err := notifier.UnreadCount(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
