package comments

import (
	"errors"
	"time"

	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/streaks"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentDeleted  = errors.New("comment has been deleted")
	ErrInvalidText     = errors.New("comment text must be 1 to 2000 characters")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyRated    = errors.New("you have already rated this figure")
	ErrInvalidParent   = errors.New("replies can only be made to top-level comments")
	ErrNotAuthor       = errors.New("only the author can do that")
	ErrInvalidReaction = errors.New("reaction must be like or dislike")
	ErrNoReaction      = errors.New("no reaction to remove")
	ErrFigureNotFound  = figures.ErrFigureNotFound
)

const (
	maxTextLen = 2000

	ReactionLike    = "like"
	ReactionDislike = "dislike"

	SortNewest = "newest"
	SortLikes  = "likes"
)

// Author identifies who wrote a comment.
type Author struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// Comment is a top-level rated comment or a reply.
type Comment struct {
	ID         int64     `json:"id"`
	FigureID   string    `json:"figureId"`
	ParentID   *int64    `json:"parentId,omitempty"`
	Author     Author    `json:"author"`
	Text       string    `json:"text"`
	Rating     int       `json:"rating,omitempty"`
	Likes      int64     `json:"likes"`
	Dislikes   int64     `json:"dislikes"`
	ReplyCount int64     `json:"replyCount"`
	Deleted    bool      `json:"deleted"`
	MyReaction string    `json:"myReaction,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateInput is a new top-level comment.
type CreateInput struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// ReplyInput is a new reply.
type ReplyInput struct {
	Text string `json:"text"`
}

// UpdateInput edits a comment. Nil fields are left unchanged.
type UpdateInput struct {
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty"`
}

// Created is returned after posting a comment or reply.
type Created struct {
	Comment *Comment         `json:"comment"`
	Streak  *streaks.Streak  `json:"streak"`
	Tallies *figures.Tallies `json:"tallies,omitempty"`
}

// ListOptions controls List.
type ListOptions struct {
	Sort     string
	Page     int
	PageSize int
}

// ListResponse is one page of top-level comments.
type ListResponse struct {
	Items    []*Comment `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// ReactionResult reports a comment's counters after a reaction change.
type ReactionResult struct {
	CommentID int64  `json:"commentId"`
	Reaction  string `json:"reaction,omitempty"`
	Likes     int64  `json:"likes"`
	Dislikes  int64  `json:"dislikes"`
}
