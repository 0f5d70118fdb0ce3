package service

import (
	"context"
	"errors"
	"fmt"
	"ttscore/internal/constants"
	"ttscore/internal/domain"
	"ttscore/internal/repository"
	"ttscore/internal/settings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidSelection = errors.New("invalid selection")

// ResolvedSelection holds the selected entities; nil fields are not selected
// or no longer cached.
type ResolvedSelection struct {
	Selection settings.Selection
	Season    *domain.Season
	Club      *domain.Club
	Team      *domain.Team
}

// SelectionService reads and writes the current season, club and team.
type SelectionService struct {
	store   settings.Store
	seasons *repository.SeasonRepository
	clubs   *repository.ClubRepository
	teams   *repository.TeamRepository
	logger  zerolog.Logger
}

func NewSelectionService(store settings.Store, seasons *repository.SeasonRepository, clubs *repository.ClubRepository, teams *repository.TeamRepository, logger zerolog.Logger) *SelectionService {
	return &SelectionService{store: store, seasons: seasons, clubs: clubs, teams: teams, logger: logger}
}

func (s *SelectionService) Current() settings.Selection {
	return settings.LoadSelection(s.store)
}

// Resolve looks the three selected entities up concurrently.
func (s *SelectionService) Resolve(ctx context.Context) (*ResolvedSelection, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	sel := s.Current()
	resolved := &ResolvedSelection{Selection: sel}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		season, err := s.seasons.Get(gctx, sel.SeasonID)
		resolved.Season = season
		return err
	})
	g.Go(func() error {
		club, err := s.clubs.Get(gctx, sel.ClubID, sel.SeasonID)
		resolved.Club = club
		return err
	})
	g.Go(func() error {
		team, err := s.teams.Get(gctx, sel.TeamID)
		resolved.Team = team
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Select validates the selection against the local cache and stores it.
// A team must belong to the selected club and season.
func (s *SelectionService) Select(ctx context.Context, sel settings.Selection) (*ResolvedSelection, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if sel.SeasonID == 0 {
		return nil, fmt.Errorf("%w: a season is required", ErrInvalidSelection)
	}

	season, err := s.seasons.Get(ctx, sel.SeasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, fmt.Errorf("%w: unknown season %d", ErrInvalidSelection, sel.SeasonID)
	}
	resolved := &ResolvedSelection{Selection: sel, Season: season}

	if sel.ClubID != "" {
		club, err := s.clubs.Get(ctx, sel.ClubID, sel.SeasonID)
		if err != nil {
			return nil, err
		}
		if club == nil {
			return nil, fmt.Errorf("%w: unknown club %s in season %d", ErrInvalidSelection, sel.ClubID, sel.SeasonID)
		}
		resolved.Club = club
	}

	if sel.TeamID != "" {
		team, err := s.teams.Get(ctx, sel.TeamID)
		if err != nil {
			return nil, err
		}
		if team == nil || team.ClubID != sel.ClubID || team.SeasonID != sel.SeasonID {
			return nil, fmt.Errorf("%w: team %s is not part of club %s", ErrInvalidSelection, sel.TeamID, sel.ClubID)
		}
		resolved.Team = team
	}

	if err := settings.SaveSelection(s.store, sel); err != nil {
		return nil, err
	}

	s.logger.Info().Int("season_id", sel.SeasonID).Str("club_id", sel.ClubID).Str("team_id", sel.TeamID).Msg("selection stored")
	return resolved, nil
}
