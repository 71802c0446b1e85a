// Package defaults seeds a fresh install with figures and the bootstrap admin.
package defaults

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
	"github.com/wikistars5/wikistars5/internal/figures"
)

//go:embed figures.yaml
var embeddedFigures []byte

// SeedFile is the layout of a figures seed file.
type SeedFile struct {
	Figures []figures.SaveInput `yaml:"figures"`
}

// SeedResult counts what a seed run did.
type SeedResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"`
}

// Service applies seed data.
type Service struct {
	queries *sqlc.Queries
	figures *figures.Service
	auth    *auth.Service
	logger  zerolog.Logger
}

func NewService(db *sql.DB, figureService *figures.Service, authService *auth.Service, logger zerolog.Logger) *Service {
	return &Service{
		queries: sqlc.New(db),
		figures: figureService,
		auth:    authService,
		logger:  logger.With().Str("component", "defaults").Logger(),
	}
}

// ParseSeed decodes a seed file. Unknown keys are rejected.
func ParseSeed(data []byte) ([]figures.SaveInput, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file SeedFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return file.Figures, nil
}

// SeedFigures creates every figure in data that does not exist yet. Nil data
// seeds the embedded list. Invalid entries are reported, not fatal.
func (s *Service) SeedFigures(ctx context.Context, data []byte) (*SeedResult, error) {
	if data == nil {
		data = embeddedFigures
	}
	inputs, err := ParseSeed(data)
	if err != nil {
		return nil, err
	}

	res := &SeedResult{}
	for _, in := range inputs {
		_, err := s.figures.Create(ctx, in, 0)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, figures.ErrFigureExists):
			res.Skipped++
		case errors.Is(err, figures.ErrInvalidFigure):
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", in.Name, err))
		default:
			return res, err
		}
	}

	s.logger.Info().Int("created", res.Created).Int("skipped", res.Skipped).Int("failed", len(res.Failed)).Msg("Seeded figures")
	return res, nil
}

// SeedIfEmpty seeds the embedded figures only when the catalog is empty.
func (s *Service) SeedIfEmpty(ctx context.Context) error {
	n, err := s.queries.CountFigures(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to count figures: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = s.SeedFigures(ctx, nil)
	return err
}

// EnsureAdmin creates the configured admin when no admin exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	created, err := s.auth.EnsureAdmin(ctx, username, password)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		s.logger.Info().Str("username", username).Msg("Bootstrap admin created")
	}
	return nil
}
