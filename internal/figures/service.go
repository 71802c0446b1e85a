package figures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
)

const (
	defaultPageSize    = 24
	maxPageSize        = 100
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	maxNameLen         = 200
	maxDescriptionLen  = 5000
)

// Service provides figure catalogue operations.
type Service struct {
	db      *sql.DB
	queries *sqlc.Queries
	logger  zerolog.Logger
}

// NewService creates a new figure service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		queries: sqlc.New(db),
		logger:  logger.With().Str("component", "figures").Logger(),
	}
}

// Get retrieves a figure with its tallies.
func (s *Service) Get(ctx context.Context, id string) (*Figure, error) {
	row, err := s.queries.GetFigure(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFigureNotFound
		}
		return nil, fmt.Errorf("failed to get figure: %w", err)
	}

	f := rowToFigure(row)
	if f.Tallies, err = LoadTallies(ctx, s.queries, id); err != nil {
		return nil, err
	}
	return f, nil
}

// GetForUser is Get plus the user's own votes and rating. userID 0 means anonymous.
func (s *Service) GetForUser(ctx context.Context, id string, userID int64) (*Figure, error) {
	f, err := s.Get(ctx, id)
	if err != nil || userID == 0 {
		return f, err
	}

	votes, err := s.queries.ListUserVotesForFigure(ctx, sqlc.ListUserVotesForFigureParams{UserID: userID, FigureID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	mine := &Mine{}
	for _, v := range votes {
		switch v.Kind {
		case KindAttitude:
			mine.Attitude = v.Choice
		case KindEmotion:
			mine.Emotion = v.Choice
		}
	}

	rated, err := s.queries.GetUserRatingComment(ctx, sqlc.GetUserRatingCommentParams{UserID: userID, FigureID: id})
	switch {
	case err == nil:
		mine.Rating = int(rated.Rating.Int64)
		mine.RatingCommentID = rated.ID
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}

	f.Mine = mine
	return f, nil
}

// Exists returns ErrFigureNotFound when no figure has the given ID.
func (s *Service) Exists(ctx context.Context, id string) error {
	return Exists(ctx, s.queries, id)
}

// Exists is the query-level check shared with callers holding a transaction.
func Exists(ctx context.Context, q *sqlc.Queries, id string) error {
	n, err := q.FigureExists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check figure: %w", err)
	}
	if n == 0 {
		return ErrFigureNotFound
	}
	return nil
}

// Tallies returns the current counters of a figure.
func (s *Service) Tallies(ctx context.Context, id string) (*Tallies, error) {
	return LoadTallies(ctx, s.queries, id)
}

// LoadTallies reads the tally rows of a figure through q.
func LoadTallies(ctx context.Context, q *sqlc.Queries, figureID string) (*Tallies, error) {
	rows, err := q.ListTallies(ctx, figureID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tallies: %w", err)
	}
	return TalliesFrom(rows), nil
}

// TalliesFrom folds tally rows into a Tallies value. Every known choice is
// present in the maps, zero when it has no row.
func TalliesFrom(rows []*sqlc.FigureTally) *Tallies {
	t := &Tallies{
		Attitude: zeroed(Attitudes),
		Emotion:  zeroed(Emotions),
		Ratings:  zeroed(Ratings),
	}

	var weighted int64
	for _, r := range rows {
		switch r.Kind {
		case KindAttitude:
			t.Attitude[r.Choice] = r.Count
		case KindEmotion:
			t.Emotion[r.Choice] = r.Count
		case KindRating:
			t.Ratings[r.Choice] = r.Count
			stars, err := strconv.Atoi(r.Choice)
			if err != nil {
				continue
			}
			t.RatingCount += r.Count
			weighted += int64(stars) * r.Count
		}
	}
	if t.RatingCount > 0 {
		t.AverageRating = math.Round(float64(weighted)/float64(t.RatingCount)*100) / 100
	}
	return t
}

func zeroed(keys []string) map[string]int64 {
	m := make(map[string]int64, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}

// List returns a page of figures.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResponse, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	switch opts.Sort {
	case SortPopular, SortRecent, SortName, SortRating:
	default:
		opts.Sort = SortPopular
	}
	if opts.Category != "" && !ValidCategory(opts.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidFigure, opts.Category)
	}

	rows, err := s.queries.ListFigures(ctx, sqlc.ListFiguresParams{
		Category: opts.Category,
		Sort:     opts.Sort,
		Limit:    int64(opts.PageSize),
		Offset:   int64((opts.Page - 1) * opts.PageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list figures: %w", err)
	}

	total, err := s.queries.CountFigures(ctx, opts.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to count figures: %w", err)
	}

	items, err := s.withTallies(ctx, rows)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

// Search looks a query up in the keyword index, most popular first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*Figure, error) {
	keyword := Normalize(query)
	if keyword == "" {
		return nil, ErrInvalidQuery
	}
	if r := []rune(keyword); len(r) > maxKeywordLen {
		keyword = strings.TrimRight(string(r[:maxKeywordLen]), " ")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	rows, err := s.queries.SearchFiguresByKeyword(ctx, sqlc.SearchFiguresByKeywordParams{
		Keyword: keyword,
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search figures: %w", err)
	}
	return s.withTallies(ctx, rows)
}

func (s *Service) withTallies(ctx context.Context, rows []*sqlc.Figure) ([]*Figure, error) {
	out := make([]*Figure, len(rows))
	for i, row := range rows {
		f := rowToFigure(row)
		t, err := LoadTallies(ctx, s.queries, f.ID)
		if err != nil {
			return nil, err
		}
		f.Tallies = t
		out[i] = f
	}
	return out, nil
}

// Create adds a figure whose ID is the slug of its name.
func (s *Service) Create(ctx context.Context, input SaveInput, createdBy int64) (*Figure, error) {
	if err := normalizeInput(&input); err != nil {
		return nil, err
	}
	id := Slugify(input.Name)
	if id == "" {
		return nil, fmt.Errorf("%w: name must contain letters or digits", ErrInvalidFigure)
	}

	var created *sqlc.Figure
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		var err error
		created, err = q.CreateFigure(ctx, sqlc.CreateFigureParams{
			ID:                 id,
			Name:               input.Name,
			Description:        input.Description,
			PhotoUrl:           input.PhotoURL,
			Category:           input.Category,
			Nationality:        input.Nationality,
			Occupation:         input.Occupation,
			Gender:             input.Gender,
			BirthDate:          nullString(input.BirthDate),
			WikipediaUrl:       input.WikipediaURL,
			FamousBirthdaysUrl: input.FamousBirthdaysURL,
			Website:            input.Website,
			CreatedBy:          sql.NullInt64{Int64: createdBy, Valid: createdBy > 0},
		})
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrFigureExists
			}
			return fmt.Errorf("failed to create figure: %w", err)
		}
		return writeKeywords(ctx, q, id, input.Name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("figureId", id).Str("name", input.Name).Msg("Created figure")
	return s.Get(ctx, created.ID)
}

// Update replaces the editable fields of a figure. The ID never changes.
func (s *Service) Update(ctx context.Context, id string, input SaveInput) (*Figure, error) {
	if err := normalizeInput(&input); err != nil {
		return nil, err
	}

	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		q := s.queries.WithTx(tx)
		_, err := q.UpdateFigure(ctx, sqlc.UpdateFigureParams{
			Name:               input.Name,
			Description:        input.Description,
			PhotoUrl:           input.PhotoURL,
			Category:           input.Category,
			Nationality:        input.Nationality,
			Occupation:         input.Occupation,
			Gender:             input.Gender,
			BirthDate:          nullString(input.BirthDate),
			WikipediaUrl:       input.WikipediaURL,
			FamousBirthdaysUrl: input.FamousBirthdaysURL,
			Website:            input.Website,
			ID:                 id,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFigureNotFound
			}
			return fmt.Errorf("failed to update figure: %w", err)
		}
		if err := q.DeleteFigureKeywords(ctx, id); err != nil {
			return fmt.Errorf("failed to clear keywords: %w", err)
		}
		return writeKeywords(ctx, q, id, input.Name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("figureId", id).Msg("Updated figure")
	return s.Get(ctx, id)
}

func writeKeywords(ctx context.Context, q *sqlc.Queries, figureID, name string) error {
	for _, kw := range Keywords(name) {
		if err := q.InsertFigureKeyword(ctx, sqlc.InsertFigureKeywordParams{Keyword: kw, FigureID: figureID}); err != nil {
			return fmt.Errorf("failed to store keyword: %w", err)
		}
	}
	return nil
}

// Delete removes a figure. Votes, comments, streaks and content go with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.queries.DeleteFigure(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete figure: %w", err)
	}
	if n == 0 {
		return ErrFigureNotFound
	}
	s.logger.Info().Str("figureId", id).Msg("Deleted figure")
	return nil
}

// Keywords returns the stored search keywords of a figure.
func (s *Service) Keywords(ctx context.Context, id string) ([]string, error) {
	kws, err := s.queries.ListFigureKeywords(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	return kws, nil
}

// Similar returns existing figures whose names are at least
// DuplicateThreshold similar to name, best match first.
func (s *Service) Similar(ctx context.Context, name string) ([]Match, error) {
	rows, err := s.queries.ListFigureNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list figure names: %w", err)
	}
	candidates := make([]Match, len(rows))
	for i, r := range rows {
		candidates[i] = Match{ID: r.ID, Name: r.Name}
	}
	return rankSimilar(name, candidates, DuplicateThreshold), nil
}

func normalizeInput(in *SaveInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))

	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFigure)
	}
	if len([]rune(in.Name)) > maxNameLen {
		return fmt.Errorf("%w: name is too long", ErrInvalidFigure)
	}
	if len([]rune(in.Description)) > maxDescriptionLen {
		return fmt.Errorf("%w: description is too long", ErrInvalidFigure)
	}
	if in.Category == "" {
		in.Category = CategoryPerson
	}
	if !ValidCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidFigure, in.Category)
	}
	if in.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", in.BirthDate); err != nil {
			return fmt.Errorf("%w: birth date must be YYYY-MM-DD", ErrInvalidFigure)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func rowToFigure(row *sqlc.Figure) *Figure {
	f := &Figure{
		ID:                 row.ID,
		Name:               row.Name,
		Description:        row.Description,
		PhotoURL:           row.PhotoUrl,
		Category:           row.Category,
		Nationality:        row.Nationality,
		Occupation:         row.Occupation,
		Gender:             row.Gender,
		BirthDate:          row.BirthDate.String,
		WikipediaURL:       row.WikipediaUrl,
		FamousBirthdaysURL: row.FamousBirthdaysUrl,
		Website:            row.Website,
		CommentCount:       row.CommentCount,
	}
	if row.CreatedBy.Valid {
		by := row.CreatedBy.Int64
		f.CreatedBy = &by
	}
	if row.CreatedAt.Valid {
		f.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		f.UpdatedAt = row.UpdatedAt.Time
	}
	return f
}
