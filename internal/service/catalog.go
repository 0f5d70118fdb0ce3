package service

import (
	"context"
	"iter"
	"ttscore/internal/constants"
	"ttscore/internal/domain"
	"ttscore/internal/repository"

	"github.com/rs/zerolog"
)

// CatalogService serves cached lists and fills the cache from TabT when a
// list is empty or a refresh is asked for.
type CatalogService struct {
	seasons  *repository.SeasonRepository
	clubs    *repository.ClubRepository
	members  *repository.ClubMemberRepository
	teams    *repository.TeamRepository
	rankings *repository.DivisionRankingRepository
	logger   zerolog.Logger
}

func NewCatalogService(
	seasons *repository.SeasonRepository,
	clubs *repository.ClubRepository,
	members *repository.ClubMemberRepository,
	teams *repository.TeamRepository,
	rankings *repository.DivisionRankingRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		seasons:  seasons,
		clubs:    clubs,
		members:  members,
		teams:    teams,
		rankings: rankings,
		logger:   logger,
	}
}

func cached[E any](ctx context.Context, refresh bool, list func(context.Context) ([]E, error), importer func(context.Context) iter.Seq2[repository.Progress, error]) ([]E, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if !refresh {
		entities, err := list(ctx)
		if err != nil || len(entities) > 0 {
			return entities, err
		}
	}

	if _, err := repository.Drain(importer(ctx)); err != nil {
		return nil, err
	}
	return list(ctx)
}

func (s *CatalogService) Seasons(ctx context.Context, refresh bool) ([]domain.Season, error) {
	return cached(ctx, refresh, s.seasons.GetAll, s.seasons.ImportFromRemote)
}

func (s *CatalogService) Clubs(ctx context.Context, seasonID int, refresh bool) ([]domain.Club, error) {
	return cached(ctx, refresh,
		func(ctx context.Context) ([]domain.Club, error) { return s.clubs.GetAllBySeason(ctx, seasonID) },
		func(ctx context.Context) iter.Seq2[repository.Progress, error] {
			return s.clubs.ImportFromRemote(ctx, seasonID)
		},
	)
}

func (s *CatalogService) Members(ctx context.Context, clubID string, seasonID int, refresh bool) ([]domain.ClubMember, error) {
	return cached(ctx, refresh,
		func(ctx context.Context) ([]domain.ClubMember, error) {
			return s.members.GetAllByClub(ctx, clubID, seasonID)
		},
		func(ctx context.Context) iter.Seq2[repository.Progress, error] {
			return s.members.ImportFromRemote(ctx, clubID, seasonID)
		},
	)
}

// Member always goes to TabT; individual results are never cached.
func (s *CatalogService) Member(ctx context.Context, uniqueIndex, seasonID int) (*domain.ClubMember, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.members.FetchWithResults(ctx, uniqueIndex, seasonID)
}

func (s *CatalogService) Teams(ctx context.Context, clubID string, seasonID int, refresh bool) ([]domain.Team, error) {
	return cached(ctx, refresh,
		func(ctx context.Context) ([]domain.Team, error) { return s.teams.GetAllByClub(ctx, clubID, seasonID) },
		func(ctx context.Context) iter.Seq2[repository.Progress, error] {
			return s.teams.ImportFromRemote(ctx, clubID, seasonID)
		},
	)
}

func (s *CatalogService) Ranking(ctx context.Context, divisionID int, refresh bool) ([]domain.DivisionRanking, error) {
	return cached(ctx, refresh,
		func(ctx context.Context) ([]domain.DivisionRanking, error) {
			return s.rankings.GetAllByDivision(ctx, divisionID)
		},
		func(ctx context.Context) iter.Seq2[repository.Progress, error] {
			return s.rankings.ImportFromRemote(ctx, divisionID)
		},
	)
}
