package service

import (
	"context"
	"fmt"
	"time"
	"ttscore/internal/constants"
	"ttscore/internal/domain"
	"ttscore/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ClubWeek is the club's match list for one Monday to Sunday week.
type ClubWeek struct {
	Week    domain.Week
	Matches []domain.TeamMatch
}

// ClubWeeks holds the week before, the week of and the week after a day.
type ClubWeeks struct {
	LastWeek ClubWeek
	ThisWeek ClubWeek
	NextWeek ClubWeek
}

// MatchDetailsView is a match with its individual results and the team
// score after each of them.
type MatchDetailsView struct {
	Match     domain.TeamMatch
	Details   *domain.MatchDetails
	Standings []domain.Standing
}

type MatchService struct {
	matches *repository.TeamMatchRepository
	teams   *repository.TeamRepository
	logger  zerolog.Logger
}

func NewMatchService(matches *repository.TeamMatchRepository, teams *repository.TeamRepository, logger zerolog.Logger) *MatchService {
	return &MatchService{matches: matches, teams: teams, logger: logger}
}

// ClubWeeks fetches the three weeks around day concurrently.
func (s *MatchService) ClubWeeks(ctx context.Context, clubID string, day time.Time) (*ClubWeeks, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Debug().Str("club_id", clubID).Time("day", day).Msg("fetching club weeks")

	days := [3]time.Time{day.AddDate(0, 0, -7), day, day.AddDate(0, 0, 7)}
	var weeks [3]ClubWeek

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range days {
		g.Go(func() error {
			matches, err := s.matches.FetchClubMatchesInWeek(gctx, clubID, d)
			if err != nil {
				return err
			}
			weeks[i] = ClubWeek{Week: domain.WeekOf(d), Matches: matches}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("club_id", clubID).Msg("failed to fetch club weeks")
		return nil, err
	}

	return &ClubWeeks{LastWeek: weeks[0], ThisWeek: weeks[1], NextWeek: weeks[2]}, nil
}

// Details fetches one match with details from the remote source. It returns
// nil when the match is unknown.
func (s *MatchService) Details(ctx context.Context, matchUniqueID, divisionID, seasonID int) (*MatchDetailsView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	match, err := s.matches.FetchDetails(ctx, matchUniqueID, divisionID, seasonID)
	if err != nil {
		s.logger.Error().Err(err).Int("match_unique_id", matchUniqueID).Msg("failed to fetch match details")
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	view := &MatchDetailsView{Match: *match, Details: match.Details}
	if match.Details != nil {
		view.Standings = match.Details.RunningStandings()
	}
	return view, nil
}

// TeamMatches returns the cached matches of a team grouped per week,
// importing them first when the cache holds none or refresh is set.
func (s *MatchService) TeamMatches(ctx context.Context, teamID string, refresh bool) ([]domain.DivisionWeekMatches, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	matches, err := s.matches.GetAllByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 || refresh {
		team, err := s.teams.Get(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, teamID)
		}

		if _, err := repository.Drain(s.matches.ImportForTeam(ctx, *team)); err != nil {
			return nil, err
		}
		if matches, err = s.matches.GetAllByTeam(ctx, teamID); err != nil {
			return nil, err
		}
	}

	return domain.GroupByWeek(matches), nil
}

// DivisionMatches is TeamMatches for the division wide match list.
func (s *MatchService) DivisionMatches(ctx context.Context, divisionID int, refresh bool) ([]domain.DivisionWeekMatches, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	matches, err := s.matches.GetAllByDivision(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 || refresh {
		if _, err := repository.Drain(s.matches.ImportForDivision(ctx, divisionID)); err != nil {
			return nil, err
		}
		if matches, err = s.matches.GetAllByDivision(ctx, divisionID); err != nil {
			return nil, err
		}
	}

	return domain.GroupByWeek(matches), nil
}
