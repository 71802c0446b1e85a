package votes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/websocket"
)

var (
	ErrInvalidAttitude = errors.New("invalid attitude")
	ErrInvalidEmotion  = errors.New("invalid emotion")
	ErrInvalidKind     = errors.New("invalid vote kind")
	ErrNoVote          = errors.New("no vote to retract")
	ErrFigureNotFound  = figures.ErrFigureNotFound
)

// Result is the outcome of a vote change.
type Result struct {
	FigureID string           `json:"figureId"`
	Kind     string           `json:"kind"`
	Choice   string           `json:"choice,omitempty"`
	Changed  bool             `json:"changed"`
	Tallies  *figures.Tallies `json:"tallies"`
}

// TallyEvent is broadcast after a figure's counters change.
type TallyEvent struct {
	FigureID string           `json:"figureId"`
	Tallies  *figures.Tallies `json:"tallies"`
}

// Service casts and retracts attitude and emotion votes.
type Service struct {
	db      *sql.DB
	queries *sqlc.Queries
	hub     *websocket.Hub
	logger  zerolog.Logger
}

// NewService creates a new vote service. hub may be nil.
func NewService(db *sql.DB, hub *websocket.Hub, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		queries: sqlc.New(db),
		hub:     hub,
		logger:  logger.With().Str("component", "votes").Logger(),
	}
}

// Validate checks that choice belongs to kind.
func Validate(kind, choice string) error {
	switch kind {
	case figures.KindAttitude:
		if !slices.Contains(figures.Attitudes, choice) {
			return fmt.Errorf("%w: %q", ErrInvalidAttitude, choice)
		}
	case figures.KindEmotion:
		if !slices.Contains(figures.Emotions, choice) {
			return fmt.Errorf("%w: %q", ErrInvalidEmotion, choice)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return nil
}

// Cast records the user's choice for kind on a figure. Re-casting the same
// choice changes nothing; a different choice moves one unit between tallies.
func (s *Service) Cast(ctx context.Context, userID int64, figureID, kind, choice string) (*Result, error) {
	if err := Validate(kind, choice); err != nil {
		return nil, err
	}

	res := &Result{FigureID: figureID, Kind: kind, Choice: choice}
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		if err := figures.Exists(ctx, q, figureID); err != nil {
			return err
		}

		key := sqlc.GetVoteParams{UserID: userID, FigureID: figureID, Kind: kind}
		prev, err := q.GetVote(ctx, key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := q.InsertVote(ctx, sqlc.InsertVoteParams{UserID: userID, FigureID: figureID, Kind: kind, Choice: choice}); err != nil {
				return fmt.Errorf("failed to insert vote: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load vote: %w", err)
		case prev.Choice == choice:
			return s.loadTallies(ctx, q, res)
		default:
			if err := q.UpdateVoteChoice(ctx, sqlc.UpdateVoteChoiceParams{Choice: choice, UserID: userID, FigureID: figureID, Kind: kind}); err != nil {
				return fmt.Errorf("failed to update vote: %w", err)
			}
			if err := decrement(ctx, q, figureID, kind, prev.Choice); err != nil {
				return err
			}
		}

		if err := q.IncrementTally(ctx, sqlc.IncrementTallyParams{FigureID: figureID, Kind: kind, Choice: choice}); err != nil {
			return fmt.Errorf("failed to increment tally: %w", err)
		}
		res.Changed = true
		return s.loadTallies(ctx, q, res)
	})
	if err != nil {
		return nil, err
	}

	if res.Changed {
		s.logger.Debug().Int64("userId", userID).Str("figureId", figureID).Str("kind", kind).Str("choice", choice).Msg("vote cast")
		s.broadcast(res)
	}
	return res, nil
}

// Retract removes the user's vote of the given kind.
func (s *Service) Retract(ctx context.Context, userID int64, figureID, kind string) (*Result, error) {
	if kind != figures.KindAttitude && kind != figures.KindEmotion {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	res := &Result{FigureID: figureID, Kind: kind}
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		if err := figures.Exists(ctx, q, figureID); err != nil {
			return err
		}

		prev, err := q.GetVote(ctx, sqlc.GetVoteParams{UserID: userID, FigureID: figureID, Kind: kind})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoVote
			}
			return fmt.Errorf("failed to load vote: %w", err)
		}

		if _, err := q.DeleteVote(ctx, sqlc.DeleteVoteParams{UserID: userID, FigureID: figureID, Kind: kind}); err != nil {
			return fmt.Errorf("failed to delete vote: %w", err)
		}
		if err := decrement(ctx, q, figureID, kind, prev.Choice); err != nil {
			return err
		}
		res.Changed = true
		return s.loadTallies(ctx, q, res)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(res)
	return res, nil
}

// Mine returns the user's votes on a figure keyed by kind.
func (s *Service) Mine(ctx context.Context, userID int64, figureID string) (map[string]string, error) {
	if err := figures.Exists(ctx, s.queries, figureID); err != nil {
		return nil, err
	}
	rows, err := s.queries.ListUserVotesForFigure(ctx, sqlc.ListUserVotesForFigureParams{UserID: userID, FigureID: figureID})
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, v := range rows {
		out[v.Kind] = v.Choice
	}
	return out, nil
}

func (s *Service) loadTallies(ctx context.Context, q *sqlc.Queries, res *Result) error {
	t, err := figures.LoadTallies(ctx, q, res.FigureID)
	if err != nil {
		return err
	}
	res.Tallies = t
	return nil
}

func (s *Service) broadcast(res *Result) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(websocket.EventFigureTally, TallyEvent{FigureID: res.FigureID, Tallies: res.Tallies})
}

// decrement lowers a tally by one. A counter already at zero stays there.
func decrement(ctx context.Context, q *sqlc.Queries, figureID, kind, choice string) error {
	if _, err := q.DecrementTally(ctx, sqlc.DecrementTallyParams{FigureID: figureID, Kind: kind, Choice: choice}); err != nil {
		return fmt.Errorf("failed to decrement tally: %w", err)
	}
	return nil
}
