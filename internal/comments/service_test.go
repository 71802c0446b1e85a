package comments

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/notification"
	"github.com/wikistars5/wikistars5/internal/streaks"
	"github.com/wikistars5/wikistars5/internal/testutil"
)

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notification.Notice
}

func (f *fakeNotifier) Notify(_ context.Context, n notification.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

func setup(t *testing.T) (*Service, *testutil.TestDB, *fakeNotifier) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)
	tdb.SeedFigure(t, "adele", "Adele")

	clock, err := streaks.NewClock("UTC")
	require.NoError(t, err)
	svc := NewService(tdb.Conn, streaks.NewService(tdb.Conn, clock, tdb.Logger), nil, tdb.Logger)
	n := &fakeNotifier{}
	svc.SetNotifier(n)
	return svc, tdb, n
}

func figureCounts(t *testing.T, tdb *testutil.TestDB) (int64, *figures.Tallies) {
	t.Helper()
	ctx := context.Background()
	f, err := tdb.Queries().GetFigure(ctx, "adele")
	require.NoError(t, err)
	tallies, err := figures.LoadTallies(ctx, tdb.Queries(), "adele")
	require.NoError(t, err)
	return f.CommentCount, tallies
}

func TestCreate(t *testing.T) {
	svc, tdb, _ := setup(t)
	ctx := context.Background()
	uid := tdb.SeedUser(t, "ana", "user")

	out, err := svc.Create(ctx, uid, "adele", CreateInput{Text: "  great voice  ", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "great voice", out.Comment.Text)
	assert.Equal(t, 5, out.Comment.Rating)
	assert.Equal(t, "ana", out.Comment.Author.Username)
	assert.Equal(t, 1, out.Streak.Current)
	assert.Equal(t, int64(1), out.Tallies.Ratings["5"])
	assert.Equal(t, int64(1), out.Tallies.RatingCount)

	count, _ := figureCounts(t, tdb)
	assert.Equal(t, int64(1), count)

	_, err = svc.Create(ctx, uid, "adele", CreateInput{Text: "again", Rating: 3})
	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestCreate_Validation(t *testing.T) {
	svc, tdb, _ := setup(t)
	ctx := context.Background()
	uid := tdb.SeedUser(t, "ana", "user")

	_, err := svc.Create(ctx, uid, "adele", CreateInput{Text: "   ", Rating: 4})
	assert.ErrorIs(t, err, ErrInvalidText)

	_, err = svc.Create(ctx, uid, "adele", CreateInput{Text: strings.Repeat("é", maxTextLen+1), Rating: 4})
	assert.ErrorIs(t, err, ErrInvalidText)

	_, err = svc.Create(ctx, uid, "adele", CreateInput{Text: "ok", Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(ctx, uid, "adele", CreateInput{Text: "ok", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(ctx, uid, "nobody", CreateInput{Text: "ok", Rating: 3})
	assert.ErrorIs(t, err, ErrFigureNotFound)
}

func TestReply(t *testing.T) {
	svc, tdb, notifier := setup(t)
	ctx := context.Background()
	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")

	top, err := svc.Create(ctx, ana, "adele", CreateInput{Text: "love her", Rating: 5})
	require.NoError(t, err)

	out, err := svc.Reply(ctx, bob, top.Comment.ID, ReplyInput{Text: "same"})
	require.NoError(t, err)
	require.NotNil(t, out.Comment.ParentID)
	assert.Equal(t, top.Comment.ID, *out.Comment.ParentID)
	assert.Zero(t, out.Comment.Rating)
	assert.Equal(t, 1, out.Streak.Current)

	require.Len(t, notifier.notices, 1)
	n := notifier.notices[0]
	assert.Equal(t, ana, n.UserID)
	assert.Equal(t, notification.NoticeCommentReply, n.Type)
	assert.Equal(t, "bob replied to you", n.Title)
	assert.Equal(t, "On Adele: same", n.Message)
	assert.Equal(t, out.Comment.ID, n.CommentID)

	// Replying to yourself does not notify.
	_, err = svc.Reply(ctx, ana, top.Comment.ID, ReplyInput{Text: "thanks"})
	require.NoError(t, err)
	assert.Len(t, notifier.notices, 1)

	parent, err := svc.Get(ctx, top.Comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), parent.ReplyCount)

	count, _ := figureCounts(t, tdb)
	assert.Equal(t, int64(3), count)

	_, err = svc.Reply(ctx, bob, out.Comment.ID, ReplyInput{Text: "nested"})
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = svc.Reply(ctx, bob, 9999, ReplyInput{Text: "nobody"})
	assert.ErrorIs(t, err, ErrCommentNotFound)

	replies, err := svc.Replies(ctx, top.Comment.ID, 0)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "same", replies[0].Text)
	assert.Equal(t, "thanks", replies[1].Text)
}

func TestUpdate(t *testing.T) {
	svc, tdb, _ := setup(t)
	ctx := context.Background()
	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")

	top, err := svc.Create(ctx, ana, "adele", CreateInput{Text: "fine", Rating: 2})
	require.NoError(t, err)

	rating := 4
	text := "grew on me"
	updated, err := svc.Update(ctx, ana, top.Comment.ID, UpdateInput{Text: &text, Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, "grew on me", updated.Text)
	assert.Equal(t, 4, updated.Rating)

	_, tallies := figureCounts(t, tdb)
	assert.Equal(t, int64(0), tallies.Ratings["2"])
	assert.Equal(t, int64(1), tallies.Ratings["4"])
	assert.Equal(t, int64(1), tallies.RatingCount)

	_, err = svc.Update(ctx, bob, top.Comment.ID, UpdateInput{Text: &text})
	assert.ErrorIs(t, err, ErrNotAuthor)

	bad := 9
	_, err = svc.Update(ctx, ana, top.Comment.ID, UpdateInput{Rating: &bad})
	assert.ErrorIs(t, err, ErrInvalidRating)

	reply, err := svc.Reply(ctx, bob, top.Comment.ID, ReplyInput{Text: "hm"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, bob, reply.Comment.ID, UpdateInput{Rating: &rating})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestDelete(t *testing.T) {
	svc, tdb, _ := setup(t)
	ctx := context.Background()
	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")
	admin := tdb.SeedUser(t, "root", "admin")

	top, err := svc.Create(ctx, ana, "adele", CreateInput{Text: "meh", Rating: 1})
	require.NoError(t, err)
	reply, err := svc.Reply(ctx, bob, top.Comment.ID, ReplyInput{Text: "why"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, bob, false, top.Comment.ID), ErrNotAuthor)
	require.NoError(t, svc.Delete(ctx, ana, false, top.Comment.ID))
	require.NoError(t, svc.Delete(ctx, ana, false, top.Comment.ID))

	deleted, err := svc.Get(ctx, top.Comment.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Empty(t, deleted.Text)
	assert.Zero(t, deleted.Rating)

	count, tallies := figureCounts(t, tdb)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(0), tallies.Ratings["1"])

	// The rating slot is free again.
	_, err = svc.Create(ctx, ana, "adele", CreateInput{Text: "second thoughts", Rating: 3})
	require.NoError(t, err)

	_, err = svc.Reply(ctx, bob, top.Comment.ID, ReplyInput{Text: "late"})
	assert.ErrorIs(t, err, ErrCommentDeleted)

	require.NoError(t, svc.Delete(ctx, admin, true, reply.Comment.ID))
	parent, err := svc.Get(ctx, top.Comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), parent.ReplyCount)

	assert.ErrorIs(t, svc.Delete(ctx, ana, false, 9999), ErrCommentNotFound)
}

func TestList(t *testing.T) {
	svc, tdb, _ := setup(t)
	ctx := context.Background()
	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")
	cat := tdb.SeedUser(t, "cat", "user")

	a, err := svc.Create(ctx, ana, "adele", CreateInput{Text: "first", Rating: 5})
	require.NoError(t, err)
	b, err := svc.Create(ctx, bob, "adele", CreateInput{Text: "second", Rating: 3})
	require.NoError(t, err)
	_, err = svc.Reply(ctx, cat, a.Comment.ID, ReplyInput{Text: "reply"})
	require.NoError(t, err)

	_, err = svc.React(ctx, cat, a.Comment.ID, ReactionLike)
	require.NoError(t, err)
	_, err = svc.React(ctx, bob, b.Comment.ID, ReactionDislike)
	require.NoError(t, err)

	page, err := svc.List(ctx, "adele", cat, ListOptions{Sort: SortLikes})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, a.Comment.ID, page.Items[0].ID)
	assert.Equal(t, ReactionLike, page.Items[0].MyReaction)
	assert.Equal(t, int64(1), page.Items[0].ReplyCount)
	assert.Empty(t, page.Items[1].MyReaction)

	page, err = svc.List(ctx, "adele", 0, ListOptions{PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.PageSize)

	_, err = svc.List(ctx, "nobody", 0, ListOptions{})
	assert.ErrorIs(t, err, ErrFigureNotFound)
}

func TestReactions(t *testing.T) {
	svc, tdb, _ := setup(t)
	ctx := context.Background()
	ana := tdb.SeedUser(t, "ana", "user")
	bob := tdb.SeedUser(t, "bob", "user")

	top, err := svc.Create(ctx, ana, "adele", CreateInput{Text: "hello", Rating: 4})
	require.NoError(t, err)
	id := top.Comment.ID

	res, err := svc.React(ctx, bob, id, ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Likes)

	res, err = svc.React(ctx, bob, id, ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Likes)

	res, err = svc.React(ctx, bob, id, ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Likes)
	assert.Equal(t, int64(1), res.Dislikes)

	res, err = svc.Unreact(ctx, bob, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Dislikes)
	assert.Empty(t, res.Reaction)

	_, err = svc.Unreact(ctx, bob, id)
	assert.ErrorIs(t, err, ErrNoReaction)

	_, err = svc.React(ctx, bob, id, "love")
	assert.ErrorIs(t, err, ErrInvalidReaction)

	require.NoError(t, svc.Delete(ctx, ana, false, id))
	_, err = svc.React(ctx, bob, id, ReactionLike)
	assert.ErrorIs(t, err, ErrCommentDeleted)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short"))
	long := strings.Repeat("a", excerptLen+5)
	assert.Equal(t, strings.Repeat("a", excerptLen)+"…", excerpt(long))
}
