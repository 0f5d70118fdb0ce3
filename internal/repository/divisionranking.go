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

type DivisionRankingRepository struct {
	table  *Table[domain.DivisionRanking]
	remote api.TabT
	logger zerolog.Logger
}

func NewDivisionRankingRepository(db *database.DB, remote api.TabT, m *metrics.Metrics, logger zerolog.Logger) *DivisionRankingRepository {
	table := &Table[domain.DivisionRanking]{
		Name: "divisionrankings",
		Columns: []string{
			"divisionId", "position", "team", "gamesPlayed", "gamesWon", "gamesLost", "gamesDraw",
			"individualMatchesWon", "individualMatchesLost", "individualSetsWon", "individualSetsLost",
			"points", "teamClubId",
		},
		KeyColumns: []string{"divisionId", "position"},
		Scan: func(row database.Row) domain.DivisionRanking {
			return domain.DivisionRanking{
				DivisionID:            row.Int(0),
				Position:              row.Int(1),
				TeamName:              row.String(2),
				GamesPlayed:           row.Int(3),
				GamesWon:              row.Int(4),
				GamesLost:             row.Int(5),
				GamesDraw:             row.Int(6),
				IndividualMatchesWon:  row.Int(7),
				IndividualMatchesLost: row.Int(8),
				IndividualSetsWon:     row.Int(9),
				IndividualSetsLost:    row.Int(10),
				Points:                row.Int(11),
				TeamClubID:            row.String(12),
			}
		},
		Values: func(d domain.DivisionRanking) []any {
			return []any{
				d.DivisionID, d.Position, d.TeamName, d.GamesPlayed, d.GamesWon, d.GamesLost, d.GamesDraw,
				d.IndividualMatchesWon, d.IndividualMatchesLost, d.IndividualSetsWon, d.IndividualSetsLost,
				d.Points, d.TeamClubID,
			}
		},
		Key: func(d domain.DivisionRanking) []any {
			return []any{d.DivisionID, d.Position}
		},
	}

	return &DivisionRankingRepository{
		table:  table.bind(db, m, logger),
		remote: remote,
		logger: logger,
	}
}

func (r *DivisionRankingRepository) Get(ctx context.Context, divisionID, position int) (*domain.DivisionRanking, error) {
	return r.table.Get(ctx, divisionID, position)
}

func (r *DivisionRankingRepository) GetAllByDivision(ctx context.Context, divisionID int) ([]domain.DivisionRanking, error) {
	return r.table.List(ctx, Where(sq.Eq{"divisionId": divisionID}), OrderBy("position"))
}

func (r *DivisionRankingRepository) Save(ctx context.Context, ranking domain.DivisionRanking) (domain.DivisionRanking, error) {
	return ranking, r.table.Save(ctx, ranking)
}

func (r *DivisionRankingRepository) FetchFromRemote(ctx context.Context, divisionID int) ([]domain.DivisionRanking, error) {
	resp, err := r.remote.GetDivisionRanking(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	rankings := make([]domain.DivisionRanking, len(resp.RankingEntries))
	for i, entry := range resp.RankingEntries {
		rankings[i] = rankingFromRemote(entry, divisionID)
	}
	return rankings, nil
}

func (r *DivisionRankingRepository) ImportFromRemote(ctx context.Context, divisionID int) iter.Seq2[Progress, error] {
	r.logger.Info().Int("division_id", divisionID).Msg("importing division ranking")
	return r.table.Import(ctx, func(ctx context.Context) ([]domain.DivisionRanking, error) {
		return r.FetchFromRemote(ctx, divisionID)
	})
}
