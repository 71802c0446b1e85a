package streaks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database/sqlc"
)

const maxLeaderboard = 50

// Streak is a user's streak on one figure as shown to clients.
type Streak struct {
	UserID      int64  `json:"userId"`
	FigureID    string `json:"figureId"`
	FigureName  string `json:"figureName,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Current     int    `json:"current"`
	Longest     int    `json:"longest"`
	LastDate    string `json:"lastDate,omitempty"`
	// AtRisk is true when the streak breaks unless the user comments today.
	AtRisk bool `json:"atRisk"`
}

// Reminder is a streak that ends tonight without a new comment.
type Reminder struct {
	UserID     int64
	FigureID   string
	FigureName string
	Current    int
}

// Service records and reads streaks.
type Service struct {
	queries *sqlc.Queries
	clock   *Clock
	logger  zerolog.Logger
}

func NewService(db *sql.DB, clock *Clock, logger zerolog.Logger) *Service {
	return &Service{
		queries: sqlc.New(db),
		clock:   clock,
		logger:  logger.With().Str("component", "streaks").Logger(),
	}
}

// Clock returns the service's clock.
func (s *Service) Clock() *Clock {
	return s.clock
}

// Record advances the streak for a comment made at the given instant.
func (s *Service) Record(ctx context.Context, userID int64, figureID string, at time.Time) (*Streak, error) {
	return s.RecordWith(ctx, s.queries, userID, figureID, at)
}

// RecordWith is Record using q, so callers can include it in their transaction.
func (s *Service) RecordWith(ctx context.Context, q *sqlc.Queries, userID int64, figureID string, at time.Time) (*Streak, error) {
	today := s.clock.Day(at)

	var prev, longest int
	var lastDate string

	row, err := q.GetStreak(ctx, sqlc.GetStreakParams{UserID: userID, FigureID: figureID})
	switch {
	case err == nil:
		prev = int(row.CurrentStreak)
		longest = int(row.LongestStreak)
		lastDate = row.LastDate
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}

	// A comment timestamped before the last recorded day cannot extend anything.
	if lastDate != "" && today < lastDate {
		return s.toStreak(row.UserID, row.FigureID, prev, longest, lastDate), nil
	}

	current := Advance(prev, lastDate, today)
	if current > longest {
		longest = current
	}

	saved, err := q.UpsertStreak(ctx, sqlc.UpsertStreakParams{
		UserID:        userID,
		FigureID:      figureID,
		CurrentStreak: int64(current),
		LongestStreak: int64(longest),
		LastDate:      today,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}

	if current > prev && current > 1 {
		s.logger.Debug().Int64("userId", userID).Str("figureId", figureID).Int("streak", current).Msg("streak extended")
	}

	return s.toStreak(saved.UserID, saved.FigureID, int(saved.CurrentStreak), int(saved.LongestStreak), saved.LastDate), nil
}

// Get returns the user's streak for a figure. A missing row is a zero streak.
func (s *Service) Get(ctx context.Context, userID int64, figureID string) (*Streak, error) {
	row, err := s.queries.GetStreak(ctx, sqlc.GetStreakParams{UserID: userID, FigureID: figureID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Streak{UserID: userID, FigureID: figureID}, nil
		}
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	return s.toStreak(row.UserID, row.FigureID, int(row.CurrentStreak), int(row.LongestStreak), row.LastDate), nil
}

// ListForUser returns every streak of a user, most recently active first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Streak, error) {
	rows, err := s.queries.ListUserStreaks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list streaks: %w", err)
	}

	out := make([]*Streak, 0, len(rows))
	for _, row := range rows {
		st := s.toStreak(row.UserID, row.FigureID, int(row.CurrentStreak), int(row.LongestStreak), row.LastDate)
		st.FigureName = row.FigureName
		out = append(out, st)
	}
	return out, nil
}

// TopForFigure returns the longest active streaks on a figure.
func (s *Service) TopForFigure(ctx context.Context, figureID string, limit int) ([]*Streak, error) {
	if limit <= 0 || limit > maxLeaderboard {
		limit = maxLeaderboard
	}

	rows, err := s.queries.ListFigureStreakLeaders(ctx, sqlc.ListFigureStreakLeadersParams{
		FigureID: figureID,
		LastDate: Yesterday(s.clock.Today()),
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list streak leaders: %w", err)
	}

	out := make([]*Streak, 0, len(rows))
	for _, row := range rows {
		st := s.toStreak(row.UserID, row.FigureID, int(row.CurrentStreak), int(row.LongestStreak), row.LastDate)
		st.Username = row.Username
		st.DisplayName = row.DisplayName
		out = append(out, st)
	}
	return out, nil
}

// DueForReminder returns streaks of at least minStreak whose last comment was
// the day before today.
func (s *Service) DueForReminder(ctx context.Context, today string, minStreak int) ([]Reminder, error) {
	if minStreak < 1 {
		minStreak = 1
	}
	yesterday := Yesterday(today)
	if yesterday == "" {
		return nil, fmt.Errorf("invalid date %q", today)
	}

	rows, err := s.queries.ListStreaksDueForReminder(ctx, sqlc.ListStreaksDueForReminderParams{
		LastDate:      yesterday,
		CurrentStreak: int64(minStreak),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list due streaks: %w", err)
	}

	out := make([]Reminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, Reminder{
			UserID:     row.UserID,
			FigureID:   row.FigureID,
			FigureName: row.FigureName,
			Current:    int(row.CurrentStreak),
		})
	}
	return out, nil
}

func (s *Service) toStreak(userID int64, figureID string, current, longest int, lastDate string) *Streak {
	today := s.clock.Today()
	shown := Display(current, lastDate, today)
	return &Streak{
		UserID:   userID,
		FigureID: figureID,
		Current:  shown,
		Longest:  longest,
		LastDate: lastDate,
		AtRisk:   shown > 0 && lastDate != today,
	}
}
