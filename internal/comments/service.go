package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/notification"
	"github.com/wikistars5/wikistars5/internal/streaks"
	"github.com/wikistars5/wikistars5/internal/websocket"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	excerptLen      = 120
)

// Notifier delivers in-app and push notifications.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notice)
}

// TallyEvent is broadcast when a rating bucket changes.
type TallyEvent struct {
	FigureID string           `json:"figureId"`
	Tallies  *figures.Tallies `json:"tallies"`
}

// Service manages comments, replies and reactions.
type Service struct {
	db       *sql.DB
	queries  *sqlc.Queries
	streaks  *streaks.Service
	hub      *websocket.Hub
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new comment service. hub may be nil.
func NewService(db *sql.DB, streakService *streaks.Service, hub *websocket.Hub, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		queries: sqlc.New(db),
		streaks: streakService,
		hub:     hub,
		logger:  logger.With().Str("component", "comments").Logger(),
		now:     time.Now,
	}
}

// SetNotifier sets the notifier used for reply notifications.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create posts a rated top-level comment and advances the author's streak.
func (s *Service) Create(ctx context.Context, userID int64, figureID string, input CreateInput) (*Created, error) {
	text, err := cleanText(input.Text)
	if err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	out := &Created{}
	var id int64
	err = database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		if err := figures.Exists(ctx, q, figureID); err != nil {
			return err
		}

		row, err := q.CreateComment(ctx, sqlc.CreateCommentParams{
			FigureID: figureID,
			UserID:   userID,
			Text:     text,
			Rating:   sql.NullInt64{Int64: int64(input.Rating), Valid: true},
		})
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyRated
			}
			return fmt.Errorf("failed to create comment: %w", err)
		}
		id = row.ID

		if err := q.IncrementTally(ctx, ratingTally(figureID, input.Rating)); err != nil {
			return fmt.Errorf("failed to increment rating: %w", err)
		}
		if err := q.AdjustFigureCommentCount(ctx, sqlc.AdjustFigureCommentCountParams{Delta: 1, ID: figureID}); err != nil {
			return fmt.Errorf("failed to update comment count: %w", err)
		}
		if out.Streak, err = s.streaks.RecordWith(ctx, q, userID, figureID, s.now()); err != nil {
			return err
		}
		out.Tallies, err = figures.LoadTallies(ctx, q, figureID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if out.Comment, err = s.Get(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("commentId", id).Int64("userId", userID).Str("figureId", figureID).Int("rating", input.Rating).Msg("Comment created")
	s.broadcastComment(out.Comment)
	s.broadcastTallies(figureID, out.Tallies)
	return out, nil
}

// Reply answers a top-level comment. The parent's author is notified unless
// they are replying to themselves.
func (s *Service) Reply(ctx context.Context, userID, parentID int64, input ReplyInput) (*Created, error) {
	text, err := cleanText(input.Text)
	if err != nil {
		return nil, err
	}

	out := &Created{}
	var parent *sqlc.Comment
	var id int64
	err = database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)

		var err error
		parent, err = q.GetComment(ctx, parentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("failed to get parent comment: %w", err)
		}
		if parent.ParentID.Valid {
			return ErrInvalidParent
		}
		if parent.Deleted {
			return ErrCommentDeleted
		}

		row, err := q.CreateComment(ctx, sqlc.CreateCommentParams{
			FigureID: parent.FigureID,
			UserID:   userID,
			ParentID: sql.NullInt64{Int64: parentID, Valid: true},
			Text:     text,
		})
		if err != nil {
			return fmt.Errorf("failed to create reply: %w", err)
		}
		id = row.ID

		if err := q.AdjustReplyCount(ctx, sqlc.AdjustReplyCountParams{Delta: 1, ID: parentID}); err != nil {
			return fmt.Errorf("failed to update reply count: %w", err)
		}
		if err := q.AdjustFigureCommentCount(ctx, sqlc.AdjustFigureCommentCountParams{Delta: 1, ID: parent.FigureID}); err != nil {
			return fmt.Errorf("failed to update comment count: %w", err)
		}
		out.Streak, err = s.streaks.RecordWith(ctx, q, userID, parent.FigureID, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if out.Comment, err = s.Get(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("commentId", id).Int64("parentId", parentID).Int64("userId", userID).Msg("Reply created")
	s.broadcastComment(out.Comment)
	if parent.UserID != userID {
		s.notifyReply(ctx, parent, out.Comment)
	}
	return out, nil
}

// Get returns a single comment with its author.
func (s *Service) Get(ctx context.Context, id int64) (*Comment, error) {
	row, err := s.queries.GetCommentWithAuthor(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return toComment(commentRow(*row)), nil
}

// Update edits the text and, for top-level comments, the rating. Only the
// author may edit, and a rating change moves one unit between buckets.
func (s *Service) Update(ctx context.Context, userID, id int64, input UpdateInput) (*Comment, error) {
	var tallies *figures.Tallies
	var figureID string
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		c, err := loadEditable(ctx, q, id)
		if err != nil {
			return err
		}
		if c.UserID != userID {
			return ErrNotAuthor
		}
		figureID = c.FigureID

		text := c.Text
		if input.Text != nil {
			if text, err = cleanText(*input.Text); err != nil {
				return err
			}
		}

		rating := c.Rating
		if input.Rating != nil {
			if c.ParentID.Valid {
				return fmt.Errorf("%w: replies cannot carry a rating", ErrInvalidRating)
			}
			if *input.Rating < 1 || *input.Rating > 5 {
				return ErrInvalidRating
			}
			rating = sql.NullInt64{Int64: int64(*input.Rating), Valid: true}
		}

		if _, err := q.UpdateComment(ctx, sqlc.UpdateCommentParams{Text: text, Rating: rating, ID: id}); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}

		if rating.Int64 != c.Rating.Int64 {
			if _, err := q.DecrementTally(ctx, sqlc.DecrementTallyParams(ratingTally(c.FigureID, int(c.Rating.Int64)))); err != nil {
				return fmt.Errorf("failed to decrement rating: %w", err)
			}
			if err := q.IncrementTally(ctx, ratingTally(c.FigureID, int(rating.Int64))); err != nil {
				return fmt.Errorf("failed to increment rating: %w", err)
			}
			if tallies, err = figures.LoadTallies(ctx, q, c.FigureID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tallies != nil {
		s.broadcastTallies(figureID, tallies)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a comment: the text is cleared, its rating leaves the
// tallies and replies stay. Authors and admins may delete.
func (s *Service) Delete(ctx context.Context, userID int64, isAdmin bool, id int64) error {
	var tallies *figures.Tallies
	var figureID string
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		c, err := q.GetComment(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("failed to get comment: %w", err)
		}
		if c.UserID != userID && !isAdmin {
			return ErrNotAuthor
		}
		if c.Deleted {
			return nil
		}
		figureID = c.FigureID

		if err := q.SoftDeleteComment(ctx, id); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		if err := q.AdjustFigureCommentCount(ctx, sqlc.AdjustFigureCommentCountParams{Delta: -1, ID: c.FigureID}); err != nil {
			return fmt.Errorf("failed to update comment count: %w", err)
		}
		if c.ParentID.Valid {
			if err := q.AdjustReplyCount(ctx, sqlc.AdjustReplyCountParams{Delta: -1, ID: c.ParentID.Int64}); err != nil {
				return fmt.Errorf("failed to update reply count: %w", err)
			}
		}
		if c.Rating.Valid {
			if _, err := q.DecrementTally(ctx, sqlc.DecrementTallyParams(ratingTally(c.FigureID, int(c.Rating.Int64)))); err != nil {
				return fmt.Errorf("failed to decrement rating: %w", err)
			}
			if tallies, err = figures.LoadTallies(ctx, q, c.FigureID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("commentId", id).Int64("by", userID).Bool("admin", isAdmin).Msg("Comment deleted")
	if tallies != nil {
		s.broadcastTallies(figureID, tallies)
	}
	return nil
}

// List returns a page of top-level comments for a figure, newest first or by
// likes. viewerID 0 means anonymous.
func (s *Service) List(ctx context.Context, figureID string, viewerID int64, opts ListOptions) (*ListResponse, error) {
	if err := figures.Exists(ctx, s.queries, figureID); err != nil {
		return nil, err
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Sort != SortLikes {
		opts.Sort = SortNewest
	}

	rows, err := s.queries.ListTopLevelComments(ctx, sqlc.ListTopLevelCommentsParams{
		FigureID: figureID,
		Sort:     opts.Sort,
		Limit:    int64(opts.PageSize),
		Offset:   int64((opts.Page - 1) * opts.PageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	total, err := s.queries.CountTopLevelComments(ctx, figureID)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	items := make([]*Comment, len(rows))
	for i, r := range rows {
		items[i] = toComment(commentRow(*r))
	}
	if err := s.attachReactions(ctx, figureID, viewerID, items); err != nil {
		return nil, err
	}

	return &ListResponse{Items: items, Total: total, Page: opts.Page, PageSize: opts.PageSize}, nil
}

// Replies returns the replies to a top-level comment, oldest first.
func (s *Service) Replies(ctx context.Context, parentID, viewerID int64) ([]*Comment, error) {
	parent, err := s.queries.GetComment(ctx, parentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	rows, err := s.queries.ListReplies(ctx, sql.NullInt64{Int64: parentID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	items := make([]*Comment, len(rows))
	for i, r := range rows {
		items[i] = toComment(commentRow(*r))
	}
	if err := s.attachReactions(ctx, parent.FigureID, viewerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// React sets the user's like or dislike on a comment. Repeating the same
// reaction changes nothing.
func (s *Service) React(ctx context.Context, userID, commentID int64, reaction string) (*ReactionResult, error) {
	if reaction != ReactionLike && reaction != ReactionDislike {
		return nil, ErrInvalidReaction
	}

	var res *ReactionResult
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		if _, err := loadEditable(ctx, q, commentID); err != nil {
			return err
		}

		prev, err := q.GetCommentReaction(ctx, sqlc.GetCommentReactionParams{UserID: userID, CommentID: commentID})
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to load reaction: %w", err)
		}

		if prev != reaction {
			if err := q.UpsertCommentReaction(ctx, sqlc.UpsertCommentReactionParams{UserID: userID, CommentID: commentID, Reaction: reaction}); err != nil {
				return fmt.Errorf("failed to save reaction: %w", err)
			}
			delta := reactionDelta(reaction, 1)
			if prev != "" {
				old := reactionDelta(prev, -1)
				delta.LikeDelta += old.LikeDelta
				delta.DislikeDelta += old.DislikeDelta
			}
			delta.ID = commentID
			if err := q.AdjustReactionCounts(ctx, delta); err != nil {
				return fmt.Errorf("failed to update reaction counts: %w", err)
			}
		}

		res, err = reactionResult(ctx, q, commentID, reaction)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Unreact removes the user's reaction from a comment.
func (s *Service) Unreact(ctx context.Context, userID, commentID int64) (*ReactionResult, error) {
	var res *ReactionResult
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)

		prev, err := q.GetCommentReaction(ctx, sqlc.GetCommentReactionParams{UserID: userID, CommentID: commentID})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoReaction
			}
			return fmt.Errorf("failed to load reaction: %w", err)
		}
		if _, err := q.DeleteCommentReaction(ctx, sqlc.DeleteCommentReactionParams{UserID: userID, CommentID: commentID}); err != nil {
			return fmt.Errorf("failed to delete reaction: %w", err)
		}
		delta := reactionDelta(prev, -1)
		delta.ID = commentID
		if err := q.AdjustReactionCounts(ctx, delta); err != nil {
			return fmt.Errorf("failed to update reaction counts: %w", err)
		}

		res, err = reactionResult(ctx, q, commentID, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) attachReactions(ctx context.Context, figureID string, viewerID int64, items []*Comment) error {
	if viewerID == 0 || len(items) == 0 {
		return nil
	}
	rows, err := s.queries.ListUserReactionsForFigure(ctx, sqlc.ListUserReactionsForFigureParams{UserID: viewerID, FigureID: figureID})
	if err != nil {
		return fmt.Errorf("failed to load reactions: %w", err)
	}
	mine := make(map[int64]string, len(rows))
	for _, r := range rows {
		mine[r.CommentID] = r.Reaction
	}
	for _, c := range items {
		c.MyReaction = mine[c.ID]
	}
	return nil
}

func (s *Service) notifyReply(ctx context.Context, parent *sqlc.Comment, reply *Comment) {
	if s.notifier == nil {
		return
	}

	figureName := parent.FigureID
	if f, err := s.queries.GetFigure(ctx, parent.FigureID); err == nil {
		figureName = f.Name
	}
	from := reply.Author.DisplayName
	if from == "" {
		from = reply.Author.Username
	}

	s.notifier.Notify(ctx, notification.Notice{
		UserID:    parent.UserID,
		Type:      notification.NoticeCommentReply,
		Title:     fmt.Sprintf("%s replied to you", from),
		Message:   fmt.Sprintf("On %s: %s", figureName, excerpt(reply.Text)),
		FigureID:  parent.FigureID,
		CommentID: reply.ID,
		URL:       fmt.Sprintf("/figures/%s?comment=%d", parent.FigureID, parent.ID),
	})
}

func (s *Service) broadcastComment(c *Comment) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(websocket.EventCommentCreated, c)
}

func (s *Service) broadcastTallies(figureID string, t *figures.Tallies) {
	if s.hub == nil || t == nil {
		return
	}
	s.hub.Broadcast(websocket.EventFigureTally, TallyEvent{FigureID: figureID, Tallies: t})
}

// loadEditable returns a live comment or the matching sentinel.
func loadEditable(ctx context.Context, q *sqlc.Queries, id int64) (*sqlc.Comment, error) {
	c, err := q.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	if c.Deleted {
		return nil, ErrCommentDeleted
	}
	return c, nil
}

func reactionResult(ctx context.Context, q *sqlc.Queries, commentID int64, reaction string) (*ReactionResult, error) {
	c, err := q.GetComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return &ReactionResult{
		CommentID: commentID,
		Reaction:  reaction,
		Likes:     c.LikeCount,
		Dislikes:  c.DislikeCount,
	}, nil
}

func reactionDelta(reaction string, sign int64) sqlc.AdjustReactionCountsParams {
	if reaction == ReactionLike {
		return sqlc.AdjustReactionCountsParams{LikeDelta: sign}
	}
	return sqlc.AdjustReactionCountsParams{DislikeDelta: sign}
}

func ratingTally(figureID string, rating int) sqlc.IncrementTallyParams {
	return sqlc.IncrementTallyParams{FigureID: figureID, Kind: figures.KindRating, Choice: strconv.Itoa(rating)}
}

func cleanText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxTextLen {
		return "", ErrInvalidText
	}
	return s, nil
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return string(r[:excerptLen]) + "…"
}

// commentRow is the shape shared by the author-joined comment queries.
type commentRow sqlc.GetCommentWithAuthorRow

func toComment(r commentRow) *Comment {
	c := &Comment{
		ID:       r.ID,
		FigureID: r.FigureID,
		Author: Author{
			ID:          r.UserID,
			Username:    r.Username,
			DisplayName: r.DisplayName,
		},
		Text:       r.Text,
		Likes:      r.LikeCount,
		Dislikes:   r.DislikeCount,
		ReplyCount: r.ReplyCount,
		Deleted:    r.Deleted,
	}
	if r.ParentID.Valid {
		p := r.ParentID.Int64
		c.ParentID = &p
	}
	if r.Rating.Valid {
		c.Rating = int(r.Rating.Int64)
	}
	if r.CreatedAt.Valid {
		c.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		c.UpdatedAt = r.UpdatedAt.Time
	}
	return c
}
