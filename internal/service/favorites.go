package service

import (
	"context"
	"errors"
	"fmt"
	"ttscore/internal/constants"
	"ttscore/internal/domain"
	"ttscore/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownTeam = errors.New("team is not in the local cache")

type FavoritesService struct {
	favorites *repository.FavoriteRepository
	teams     *repository.TeamRepository
	clubs     *repository.ClubRepository
	logger    zerolog.Logger
}

func NewFavoritesService(favorites *repository.FavoriteRepository, teams *repository.TeamRepository, clubs *repository.ClubRepository, logger zerolog.Logger) *FavoritesService {
	return &FavoritesService{favorites: favorites, teams: teams, clubs: clubs, logger: logger}
}

// Add marks a cached team as favorite. Season and club come from the team row.
func (s *FavoritesService) Add(ctx context.Context, teamID string) (domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return domain.Favorite{}, err
	}
	if team == nil {
		return domain.Favorite{}, fmt.Errorf("%w: %q", ErrUnknownTeam, teamID)
	}

	s.logger.Info().Str("team_id", teamID).Str("club_id", team.ClubID).Msg("adding favorite")
	return s.favorites.Add(ctx, domain.Favorite{SeasonID: team.SeasonID, ClubID: team.ClubID, TeamID: team.TeamID})
}

func (s *FavoritesService) Remove(ctx context.Context, teamID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Info().Str("team_id", teamID).Msg("removing favorite")
	return s.favorites.Remove(ctx, teamID)
}

func (s *FavoritesService) IsFavorite(ctx context.Context, teamID string) (bool, error) {
	return s.favorites.Exists(ctx, teamID)
}

// ListResolved joins every favorite with the current Team and Club rows.
// All lookups run concurrently and the first failure fails the whole list.
func (s *FavoritesService) ListResolved(ctx context.Context) ([]domain.ResolvedFavorite, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	favorites, err := s.favorites.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.ResolvedFavorite, len(favorites))
	g, gctx := errgroup.WithContext(ctx)
	for i, fav := range favorites {
		resolved[i].Favorite = fav

		g.Go(func() error {
			team, err := s.teams.Get(gctx, fav.TeamID)
			if err != nil {
				return fmt.Errorf("resolve team %s: %w", fav.TeamID, err)
			}
			resolved[i].Team = team
			return nil
		})
		g.Go(func() error {
			club, err := s.clubs.Get(gctx, fav.ClubID, fav.SeasonID)
			if err != nil {
				return fmt.Errorf("resolve club %s: %w", fav.ClubID, err)
			}
			resolved[i].Club = club
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve favorites")
		return nil, err
	}
	return resolved, nil
}
