package repository

import (
	"context"
	"iter"
	"ttscore/internal/api"
	"ttscore/internal/database"
	"ttscore/internal/domain"
	"ttscore/internal/metrics"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

type TeamRepository struct {
	table  *Table[domain.Team]
	remote api.TabT
	logger zerolog.Logger
}

func NewTeamRepository(db *database.DB, remote api.TabT, m *metrics.Metrics, logger zerolog.Logger) *TeamRepository {
	table := &Table[domain.Team]{
		Name:       "teams",
		Columns:    []string{"teamId", "team", "divisionId", "divisionName", "divisionCategoryId", "clubId", "seasonId"},
		KeyColumns: []string{"teamId"},
		Scan: func(row database.Row) domain.Team {
			return domain.Team{
				TeamID:             row.String(0),
				Team:               row.String(1),
				DivisionID:         row.Int(2),
				DivisionName:       row.String(3),
				DivisionCategoryID: row.Int(4),
				ClubID:             row.String(5),
				SeasonID:           row.Int(6),
			}
		},
		Values: func(t domain.Team) []any {
			return []any{t.TeamID, t.Team, t.DivisionID, t.DivisionName, t.DivisionCategoryID, t.ClubID, t.SeasonID}
		},
		Key: func(t domain.Team) []any {
			return []any{t.TeamID}
		},
	}

	return &TeamRepository{
		table:  table.bind(db, m, logger),
		remote: remote,
		logger: logger,
	}
}

func (r *TeamRepository) Get(ctx context.Context, teamID string) (*domain.Team, error) {
	return r.table.Get(ctx, teamID)
}

func (r *TeamRepository) GetAllByClub(ctx context.Context, clubID string, seasonID int) ([]domain.Team, error) {
	return r.table.List(ctx, Where(sq.Eq{"clubId": clubID, "seasonId": seasonID}), OrderBy("team"))
}

func (r *TeamRepository) Save(ctx context.Context, team domain.Team) (domain.Team, error) {
	return team, r.table.Save(ctx, team)
}

func (r *TeamRepository) FetchFromRemote(ctx context.Context, clubID string, seasonID int) ([]domain.Team, error) {
	resp, err := r.remote.GetClubTeams(ctx, seasonID, clubID)
	if err != nil {
		return nil, err
	}

	teams := make([]domain.Team, len(resp.TeamEntries))
	for i, entry := range resp.TeamEntries {
		teams[i] = teamFromRemote(entry, clubID, seasonID)
	}
	return teams, nil
}

func (r *TeamRepository) ImportFromRemote(ctx context.Context, clubID string, seasonID int) iter.Seq2[Progress, error] {
	r.logger.Info().Str("club_id", clubID).Int("season_id", seasonID).Msg("importing teams")
	return r.table.Import(ctx, func(ctx context.Context) ([]domain.Team, error) {
		return r.FetchFromRemote(ctx, clubID, seasonID)
	})
}
