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

type ClubRepository struct {
	table  *Table[domain.Club]
	remote api.TabT
	logger zerolog.Logger
}

func NewClubRepository(db *database.DB, remote api.TabT, m *metrics.Metrics, logger zerolog.Logger) *ClubRepository {
	table := &Table[domain.Club]{
		Name:       "clubs",
		Columns:    []string{"uniqueId", "seasonId", "name", "longName", "categoryId"},
		KeyColumns: []string{"uniqueId", "seasonId"},
		Scan: func(row database.Row) domain.Club {
			return domain.Club{
				UniqueID:   row.String(0),
				SeasonID:   row.Int(1),
				Name:       row.String(2),
				LongName:   row.String(3),
				CategoryID: row.Int(4),
				Venues:     []domain.ClubVenue{},
			}
		},
		Values: func(c domain.Club) []any {
			return []any{c.UniqueID, c.SeasonID, c.Name, c.LongName, c.CategoryID}
		},
		Key: func(c domain.Club) []any {
			return []any{c.UniqueID, c.SeasonID}
		},
	}

	return &ClubRepository{
		table:  table.bind(db, m, logger),
		remote: remote,
		logger: logger,
	}
}

func (r *ClubRepository) Get(ctx context.Context, uniqueID string, seasonID int) (*domain.Club, error) {
	return r.table.Get(ctx, uniqueID, seasonID)
}

func (r *ClubRepository) GetAllBySeason(ctx context.Context, seasonID int) ([]domain.Club, error) {
	return r.table.List(ctx, Where(sq.Eq{"seasonId": seasonID}), OrderBy("name"))
}

func (r *ClubRepository) Save(ctx context.Context, club domain.Club) (domain.Club, error) {
	return club, r.table.Save(ctx, club)
}

// FetchFromRemote keeps category names and venues on the returned clubs;
// neither is stored locally.
func (r *ClubRepository) FetchFromRemote(ctx context.Context, seasonID int) ([]domain.Club, error) {
	entries, err := r.remote.GetClubs(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	clubs := make([]domain.Club, len(entries))
	for i, entry := range entries {
		clubs[i] = clubFromRemote(entry, seasonID)
	}
	return clubs, nil
}

func (r *ClubRepository) ImportFromRemote(ctx context.Context, seasonID int) iter.Seq2[Progress, error] {
	r.logger.Info().Int("season_id", seasonID).Msg("importing clubs")
	return r.table.Import(ctx, func(ctx context.Context) ([]domain.Club, error) {
		return r.FetchFromRemote(ctx, seasonID)
	})
}
