package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
	"github.com/wikistars5/wikistars5/internal/figures"
)

var (
	ErrContentNotFound  = errors.New("content not found")
	ErrDuplicateContent = errors.New("this post was already added to the figure")
	ErrInvalidTitle     = errors.New("title must be at most 200 characters")
	ErrInvalidPlatform  = errors.New("unknown platform")
	ErrNotSubmitter     = errors.New("only the submitter can do that")
	ErrFigureNotFound   = figures.ErrFigureNotFound
)

const maxTitleLen = 200

// Content is a community post attached to a figure.
type Content struct {
	ID         int64     `json:"id"`
	FigureID   string    `json:"figureId"`
	UserID     int64     `json:"userId"`
	Platform   string    `json:"platform"`
	ExternalID string    `json:"externalId"`
	URL        string    `json:"url"`
	EmbedURL   string    `json:"embedUrl"`
	Title      string    `json:"title,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AddInput is a post submitted by a user.
type AddInput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Service manages community content.
type Service struct {
	queries *sqlc.Queries
	logger  zerolog.Logger
}

func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		queries: sqlc.New(db),
		logger:  logger.With().Str("component", "content").Logger(),
	}
}

// Add attaches a post to a figure.
func (s *Service) Add(ctx context.Context, userID int64, figureID string, input AddInput) (*Content, error) {
	link, err := ParseLink(input.URL)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, ErrInvalidTitle
	}
	if err := figures.Exists(ctx, s.queries, figureID); err != nil {
		return nil, err
	}

	row, err := s.queries.CreateContent(ctx, sqlc.CreateContentParams{
		FigureID:   figureID,
		UserID:     userID,
		Platform:   link.Platform,
		ExternalID: link.ExternalID,
		Url:        link.URL,
		EmbedUrl:   link.EmbedURL,
		Title:      title,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateContent
		}
		return nil, fmt.Errorf("failed to add content: %w", err)
	}

	s.logger.Info().Int64("contentId", row.ID).Str("figureId", figureID).Str("platform", link.Platform).Msg("Content added")
	return toContent(row), nil
}

// List returns a figure's posts, newest first. An empty platform lists all.
func (s *Service) List(ctx context.Context, figureID, platform string) ([]*Content, error) {
	if platform != "" && !ValidPlatform(platform) {
		return nil, ErrInvalidPlatform
	}
	if err := figures.Exists(ctx, s.queries, figureID); err != nil {
		return nil, err
	}

	rows, err := s.queries.ListContentByFigure(ctx, sqlc.ListContentByFigureParams{FigureID: figureID, Platform: platform})
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	out := make([]*Content, len(rows))
	for i, r := range rows {
		out[i] = toContent(r)
	}
	return out, nil
}

// Delete removes a post. Only the submitter or an admin may delete.
func (s *Service) Delete(ctx context.Context, userID int64, isAdmin bool, id int64) error {
	row, err := s.queries.GetContent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to get content: %w", err)
	}
	if row.UserID != userID && !isAdmin {
		return ErrNotSubmitter
	}
	if _, err := s.queries.DeleteContent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	s.logger.Info().Int64("contentId", id).Int64("by", userID).Msg("Content deleted")
	return nil
}

func toContent(r *sqlc.CommunityContent) *Content {
	c := &Content{
		ID:         r.ID,
		FigureID:   r.FigureID,
		UserID:     r.UserID,
		Platform:   r.Platform,
		ExternalID: r.ExternalID,
		URL:        r.Url,
		EmbedURL:   r.EmbedUrl,
		Title:      r.Title,
	}
	if r.CreatedAt.Valid {
		c.CreatedAt = r.CreatedAt.Time
	}
	return c
}
