package repository

import (
	"context"
	"ttscore/internal/database"
	"ttscore/internal/domain"
	"ttscore/internal/metrics"

	"github.com/rs/zerolog"
)

// FavoriteRepository is local only; favorites never come from TabT.
type FavoriteRepository struct {
	table  *Table[domain.Favorite]
	logger zerolog.Logger
}

func NewFavoriteRepository(db *database.DB, m *metrics.Metrics, logger zerolog.Logger) *FavoriteRepository {
	table := &Table[domain.Favorite]{
		Name:       "teamfavorites",
		Columns:    []string{"seasonId", "clubId", "teamId"},
		KeyColumns: []string{"teamId"},
		Scan: func(row database.Row) domain.Favorite {
			return domain.Favorite{SeasonID: row.Int(0), ClubID: row.String(1), TeamID: row.String(2)}
		},
		Values: func(f domain.Favorite) []any {
			return []any{f.SeasonID, f.ClubID, f.TeamID}
		},
		Key: func(f domain.Favorite) []any {
			return []any{f.TeamID}
		},
	}

	return &FavoriteRepository{
		table:  table.bind(db, m, logger),
		logger: logger,
	}
}

func (r *FavoriteRepository) Get(ctx context.Context, teamID string) (*domain.Favorite, error) {
	return r.table.Get(ctx, teamID)
}

func (r *FavoriteRepository) GetAll(ctx context.Context) ([]domain.Favorite, error) {
	return r.table.List(ctx, OrderBy("rowid"))
}

func (r *FavoriteRepository) Exists(ctx context.Context, teamID string) (bool, error) {
	return r.table.Exists(ctx, teamID)
}

// Add stores the favorite, replacing the season and club of an existing
// favorite for the same team.
func (r *FavoriteRepository) Add(ctx context.Context, fav domain.Favorite) (domain.Favorite, error) {
	if err := r.table.Save(ctx, fav); err != nil {
		return fav, err
	}
	r.logger.Debug().Str("team_id", fav.TeamID).Msg("favorite added")
	return fav, nil
}

// Remove reports whether a favorite was deleted.
func (r *FavoriteRepository) Remove(ctx context.Context, teamID string) (bool, error) {
	n, err := r.table.Delete(ctx, teamID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
