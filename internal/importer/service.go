// Package importer turns scraped pages into figures for admins.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/figures"
	"github.com/wikistars5/wikistars5/internal/health"
	"github.com/wikistars5/wikistars5/internal/scraper"
)

var (
	ErrUnknownSource     = errors.New("unknown import source")
	ErrNameRequired      = errors.New("name is required")
	ErrPossibleDuplicate = errors.New("a similar figure already exists")
)

const maxDescriptionRunes = 5000

// Describer rewrites a draft's description.
type Describer interface {
	Enabled() bool
	Describe(ctx context.Context, draft *scraper.Draft) (string, error)
}

// Request asks for a draft of name from one source.
type Request struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	// Describe rewrites the description with the assistant when it is enabled.
	Describe bool `json:"describe"`
	// Save creates the figure. Possible duplicates block saving unless Force is set.
	Save  bool `json:"save"`
	Force bool `json:"force"`
}

// Result is the draft plus what was done with it.
type Result struct {
	Draft      *scraper.Draft  `json:"draft"`
	Duplicates []figures.Match `json:"duplicates"`
	Generated  bool            `json:"descriptionGenerated"`
	Figure     *figures.Figure `json:"figure,omitempty"`
}

// Service runs imports.
type Service struct {
	sources   map[string]scraper.Source
	describer Describer
	figures   *figures.Service
	health    *health.Service
	logger    zerolog.Logger
}

func NewService(figureService *figures.Service, describer Describer, logger zerolog.Logger, sources ...scraper.Source) *Service {
	s := &Service{
		sources:   make(map[string]scraper.Source, len(sources)),
		describer: describer,
		figures:   figureService,
		logger:    logger.With().Str("component", "importer").Logger(),
	}
	for _, src := range sources {
		s.sources[src.Name()] = src
	}
	return s
}

// assistantHealthID identifies the assistant in the health registry.
const assistantHealthID = "gemini"

// SetHealthService records source and assistant failures in hs.
func (s *Service) SetHealthService(hs *health.Service) {
	s.health = hs
	for _, name := range s.Sources() {
		hs.RegisterItem(health.CategorySources, name, name)
	}
	if s.describer != nil && s.describer.Enabled() {
		hs.RegisterItem(health.CategoryAssistant, assistantHealthID, "Gemini")
	}
}

// Sources returns the names of the configured sources.
func (s *Service) Sources() []string {
	out := make([]string, 0, len(s.sources))
	for _, name := range []string{scraper.SourceWikipedia, scraper.SourceFamousBirthdays} {
		if _, ok := s.sources[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Import scrapes the source, optionally rewrites the description and saves
// the figure. The result is returned alongside ErrPossibleDuplicate so the
// caller can show the matches.
func (s *Service) Import(ctx context.Context, req Request, userID int64) (*Result, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	src, ok := s.sources[req.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, req.Source)
	}

	draft, err := src.Lookup(ctx, name)
	s.reportSource(req.Source, err)
	if err != nil {
		return nil, err
	}
	res := &Result{Draft: draft}

	if req.Describe && s.describer != nil && s.describer.Enabled() {
		text, err := s.describer.Describe(ctx, draft)
		if err != nil {
			s.logger.Warn().Err(err).Str("name", draft.Figure.Name).Msg("Description generation failed, keeping scraped text")
			s.setHealth(health.CategoryAssistant, assistantHealthID, err)
		} else {
			draft.Figure.Description = text
			res.Generated = true
			s.setHealth(health.CategoryAssistant, assistantHealthID, nil)
		}
	}
	draft.Figure.Description = truncate(draft.Figure.Description, maxDescriptionRunes)

	if res.Duplicates, err = s.figures.Similar(ctx, draft.Figure.Name); err != nil {
		return nil, err
	}

	if !req.Save {
		return res, nil
	}
	if len(res.Duplicates) > 0 && !req.Force {
		return res, ErrPossibleDuplicate
	}

	if res.Figure, err = s.figures.Create(ctx, draft.Figure, userID); err != nil {
		return res, err
	}
	s.logger.Info().Str("figureId", res.Figure.ID).Str("source", draft.Source).Float64("similarity", draft.Similarity).Msg("Figure imported")
	return res, nil
}

// reportSource marks the source unhealthy only when it failed to answer.
// A name that does not match anything is a healthy answer.
func (s *Service) reportSource(source string, err error) {
	if errors.Is(err, scraper.ErrNoMatch) || errors.Is(err, scraper.ErrNotFound) {
		err = nil
	}
	s.setHealth(health.CategorySources, source, err)
}

func (s *Service) setHealth(category health.HealthCategory, id string, err error) {
	if s.health == nil {
		return
	}
	if err != nil {
		s.health.SetError(category, id, err.Error())
		return
	}
	s.health.ClearStatus(category, id)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
