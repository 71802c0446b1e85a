package streaks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/testutil"
)

func newTestService(t *testing.T, tdb *testutil.TestDB, now *time.Time) *Service {
	t.Helper()
	clock, err := NewClock("UTC")
	require.NoError(t, err)
	clock.now = func() time.Time { return *now }
	return NewService(tdb.Conn, clock, tdb.Logger)
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 15, 0, 0, 0, time.UTC)
}

func TestRecord_Sequence(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	uid := tdb.SeedUser(t, "ana", "user")
	tdb.SeedFigure(t, "shakira", "Shakira")

	now := day(1)
	svc := newTestService(t, tdb, &now)

	st, err := svc.Record(ctx, uid, "shakira", day(1))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Current)

	st, err = svc.Record(ctx, uid, "shakira", day(1).Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Current)

	for d := 2; d <= 4; d++ {
		now = day(d)
		st, err = svc.Record(ctx, uid, "shakira", day(d))
		require.NoError(t, err)
	}
	assert.Equal(t, 4, st.Current)
	assert.Equal(t, 4, st.Longest)
	assert.False(t, st.AtRisk)

	// Skip a day: the streak restarts but the record is kept.
	now = day(6)
	st, err = svc.Record(ctx, uid, "shakira", day(6))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, 4, st.Longest)

	// A late, out-of-order timestamp does not rewind the streak.
	st, err = svc.Record(ctx, uid, "shakira", day(5))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, "2026-03-06", st.LastDate)
}

func TestGet_DisplaysBrokenStreakAsZero(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	uid := tdb.SeedUser(t, "ana", "user")
	tdb.SeedFigure(t, "shakira", "Shakira")

	now := day(1)
	svc := newTestService(t, tdb, &now)
	_, err := svc.Record(ctx, uid, "shakira", day(1))
	require.NoError(t, err)
	now = day(2)
	_, err = svc.Record(ctx, uid, "shakira", day(2))
	require.NoError(t, err)

	now = day(3)
	st, err := svc.Get(ctx, uid, "shakira")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Current)
	assert.True(t, st.AtRisk)

	now = day(4)
	st, err = svc.Get(ctx, uid, "shakira")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Current)
	assert.Equal(t, 2, st.Longest)

	st, err = svc.Get(ctx, uid, "unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Current)
}

func TestTopForFigureAndListForUser(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")
	cid := tdb.SeedUser(t, "cid", "user")
	tdb.SeedFigure(t, "shakira", "Shakira")
	tdb.SeedFigure(t, "messi", "Lionel Messi")

	now := day(1)
	svc := newTestService(t, tdb, &now)

	for d := 1; d <= 3; d++ {
		now = day(d)
		_, err := svc.Record(ctx, ana, "shakira", day(d))
		require.NoError(t, err)
	}
	now = day(3)
	_, err := svc.Record(ctx, bob, "shakira", day(3))
	require.NoError(t, err)
	_, err = svc.Record(ctx, ana, "messi", day(3))
	require.NoError(t, err)

	now = day(1)
	_, err = svc.Record(ctx, cid, "shakira", day(1))
	require.NoError(t, err)

	now = day(4)
	top, err := svc.TopForFigure(ctx, "shakira", 10)
	require.NoError(t, err)
	require.Len(t, top, 2, "cid's streak from day 1 is broken")
	assert.Equal(t, "ana", top[0].Username)
	assert.Equal(t, 3, top[0].Current)
	assert.Equal(t, "bob", top[1].Username)

	mine, err := svc.ListForUser(ctx, ana)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	names := []string{mine[0].FigureName, mine[1].FigureName}
	assert.ElementsMatch(t, []string{"Shakira", "Lionel Messi"}, names)
}

func TestDueForReminder(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")
	tdb.SeedFigure(t, "shakira", "Shakira")

	now := day(1)
	svc := newTestService(t, tdb, &now)
	for d := 1; d <= 2; d++ {
		now = day(d)
		_, err := svc.Record(ctx, ana, "shakira", day(d))
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, bob, "shakira", day(2))
	require.NoError(t, err)

	due, err := svc.DueForReminder(ctx, "2026-03-03", 2)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, ana, due[0].UserID)
	assert.Equal(t, "Shakira", due[0].FigureName)
	assert.Equal(t, 2, due[0].Current)

	due, err = svc.DueForReminder(ctx, "2026-03-03", 1)
	require.NoError(t, err)
	assert.Len(t, due, 2)

	due, err = svc.DueForReminder(ctx, "2026-03-02", 1)
	require.NoError(t, err)
	assert.Empty(t, due)

	_, err = svc.DueForReminder(ctx, "garbage", 1)
	assert.Error(t, err)
}
