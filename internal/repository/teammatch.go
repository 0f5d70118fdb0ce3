package repository

import (
	"context"
	"iter"
	"time"
	"ttscore/internal/api"
	"ttscore/internal/database"
	"ttscore/internal/domain"
	"ttscore/internal/metrics"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

type TeamMatchRepository struct {
	table  *Table[domain.TeamMatch]
	remote api.TabT
	logger zerolog.Logger
}

func NewTeamMatchRepository(db *database.DB, remote api.TabT, m *metrics.Metrics, logger zerolog.Logger) *TeamMatchRepository {
	table := &Table[domain.TeamMatch]{
		Name: "matches",
		Columns: []string{
			"divisionId", "matchId", "teamId", "weekName", "date", "time", "venue",
			"homeClubId", "homeTeam", "awayClubId", "awayTeam",
			"isHomeForfeited", "isAwayForfeited", "score", "matchUniqueIndex",
		},
		KeyColumns:     []string{"matchId", "divisionId", "teamId"},
		ZeroKeyColumns: []string{"teamId"},
		Scan: func(row database.Row) domain.TeamMatch {
			return domain.TeamMatch{
				DivisionID:       row.Int(0),
				MatchID:          row.String(1),
				TeamID:           row.String(2),
				WeekName:         row.String(3),
				Date:             row.String(4),
				Time:             row.String(5),
				Venue:            row.Int(6),
				HomeClubID:       row.String(7),
				HomeTeam:         row.String(8),
				AwayClubID:       row.String(9),
				AwayTeam:         row.String(10),
				IsHomeForfeited:  row.Bool(11),
				IsAwayForfeited:  row.Bool(12),
				Score:            row.String(13),
				MatchUniqueIndex: row.Int(14),
			}
		},
		Values: func(m domain.TeamMatch) []any {
			return []any{
				m.DivisionID, m.MatchID, m.TeamID, m.WeekName, m.Date, m.Time, m.Venue,
				m.HomeClubID, m.HomeTeam, m.AwayClubID, m.AwayTeam,
				m.IsHomeForfeited, m.IsAwayForfeited, m.Score, m.MatchUniqueIndex,
			}
		},
		Key: func(m domain.TeamMatch) []any {
			return []any{m.MatchID, m.DivisionID, m.TeamID}
		},
	}

	return &TeamMatchRepository{
		table:  table.bind(db, m, logger),
		remote: remote,
		logger: logger,
	}
}

// Get looks a match up by its key. An empty teamID addresses the division
// wide copy of the match.
func (r *TeamMatchRepository) Get(ctx context.Context, matchID string, divisionID int, teamID string) (*domain.TeamMatch, error) {
	return r.table.Get(ctx, matchID, divisionID, teamID)
}

func (r *TeamMatchRepository) GetAllByTeam(ctx context.Context, teamID string) ([]domain.TeamMatch, error) {
	if teamID == "" {
		return []domain.TeamMatch{}, nil
	}
	return r.table.List(ctx, Where(sq.Eq{"teamId": teamID}), OrderBy("weekName", "matchId"))
}

func (r *TeamMatchRepository) GetAllByDivision(ctx context.Context, divisionID int) ([]domain.TeamMatch, error) {
	return r.table.List(ctx, Where(sq.Eq{"divisionId": divisionID, "teamId": ""}), OrderBy("weekName", "matchId"))
}

func (r *TeamMatchRepository) Save(ctx context.Context, match domain.TeamMatch) (domain.TeamMatch, error) {
	return match, r.table.Save(ctx, match)
}

func (r *TeamMatchRepository) FetchForTeam(ctx context.Context, team domain.Team) ([]domain.TeamMatch, error) {
	resp, err := r.remote.GetMatches(ctx, api.MatchesQuery{
		ClubID:     team.ClubID,
		Team:       team.Team,
		DivisionID: team.DivisionID,
	})
	if err != nil {
		return nil, err
	}
	return matchesFromRemote(resp.TeamMatchesEntries, team.DivisionID, team.TeamID)
}

func (r *TeamMatchRepository) FetchForDivision(ctx context.Context, divisionID int) ([]domain.TeamMatch, error) {
	resp, err := r.remote.GetMatches(ctx, api.MatchesQuery{DivisionID: divisionID})
	if err != nil {
		return nil, err
	}
	return matchesFromRemote(resp.TeamMatchesEntries, divisionID, "")
}

func (r *TeamMatchRepository) ImportForTeam(ctx context.Context, team domain.Team) iter.Seq2[Progress, error] {
	r.logger.Info().Str("team_id", team.TeamID).Int("division_id", team.DivisionID).Msg("importing team matches")
	return r.table.Import(ctx, func(ctx context.Context) ([]domain.TeamMatch, error) {
		return r.FetchForTeam(ctx, team)
	})
}

func (r *TeamMatchRepository) ImportForDivision(ctx context.Context, divisionID int) iter.Seq2[Progress, error] {
	r.logger.Info().Int("division_id", divisionID).Msg("importing division matches")
	return r.table.Import(ctx, func(ctx context.Context) ([]domain.TeamMatch, error) {
		return r.FetchForDivision(ctx, divisionID)
	})
}

// FetchClubMatchesInWeek lists every match of the club in the Monday to
// Sunday week containing day. The result is not stored.
func (r *TeamMatchRepository) FetchClubMatchesInWeek(ctx context.Context, clubID string, day time.Time) ([]domain.TeamMatch, error) {
	week := domain.WeekOf(day)
	resp, err := r.remote.GetMatches(ctx, api.MatchesQuery{
		ClubID:   clubID,
		DateFrom: week.StartDate(),
		DateTo:   week.EndDate(),
	})
	if err != nil {
		return nil, err
	}
	return matchesFromRemote(resp.TeamMatchesEntries, 0, "")
}

// FetchDetails loads one match with its individual results, or nil when the
// remote source does not know it.
func (r *TeamMatchRepository) FetchDetails(ctx context.Context, matchUniqueID, divisionID, seasonID int) (*domain.TeamMatch, error) {
	resp, err := r.remote.GetMatches(ctx, api.MatchesQuery{
		MatchUniqueID: matchUniqueID,
		WithDetails:   true,
		SeasonID:      seasonID,
	})
	if err != nil {
		return nil, err
	}

	matches, err := matchesFromRemote(resp.TeamMatchesEntries, divisionID, "")
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}
