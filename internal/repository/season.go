package repository

import (
	"context"
	"iter"
	"sync"
	"ttscore/internal/api"
	"ttscore/internal/database"
	"ttscore/internal/domain"
	"ttscore/internal/metrics"

	"github.com/rs/zerolog"
)

type SeasonRepository struct {
	table  *Table[domain.Season]
	remote api.TabT
	cache  *seasonCache
	logger zerolog.Logger
}

func NewSeasonRepository(db *database.DB, remote api.TabT, m *metrics.Metrics, logger zerolog.Logger) *SeasonRepository {
	table := &Table[domain.Season]{
		Name:       "seasons",
		Columns:    []string{"id", "name", "isCurrent"},
		KeyColumns: []string{"id"},
		Scan: func(row database.Row) domain.Season {
			return domain.Season{ID: row.Int(0), Name: row.String(1), IsCurrent: row.Bool(2)}
		},
		Values: func(s domain.Season) []any {
			return []any{s.ID, s.Name, s.IsCurrent}
		},
		Key: func(s domain.Season) []any {
			return []any{s.ID}
		},
	}

	return &SeasonRepository{
		table:  table.bind(db, m, logger),
		remote: remote,
		cache:  &seasonCache{metrics: m},
		logger: logger,
	}
}

func (r *SeasonRepository) Get(ctx context.Context, id int) (*domain.Season, error) {
	return r.table.Get(ctx, id)
}

// GetAll is served from memory after the first read until the next Save.
func (r *SeasonRepository) GetAll(ctx context.Context) ([]domain.Season, error) {
	seasons, gen, ok := r.cache.get()
	if ok {
		return seasons, nil
	}

	seasons, err := r.table.List(ctx, OrderBy("id"))
	if err != nil {
		return nil, err
	}
	r.cache.set(seasons, gen)
	return seasons, nil
}

// GetCurrent returns the season flagged current, or nil when none is.
func (r *SeasonRepository) GetCurrent(ctx context.Context) (*domain.Season, error) {
	seasons, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return CurrentSeason(seasons), nil
}

func (r *SeasonRepository) Save(ctx context.Context, season domain.Season) (domain.Season, error) {
	defer r.cache.invalidate()
	if err := r.table.Save(ctx, season); err != nil {
		return season, err
	}
	return season, nil
}

func (r *SeasonRepository) FetchFromRemote(ctx context.Context) ([]domain.Season, error) {
	resp, err := r.remote.GetSeasons(ctx)
	if err != nil {
		return nil, err
	}

	seasons := make([]domain.Season, len(resp.SeasonEntries))
	for i, entry := range resp.SeasonEntries {
		seasons[i] = seasonFromRemote(entry)
	}
	return seasons, nil
}

func (r *SeasonRepository) ImportFromRemote(ctx context.Context) iter.Seq2[Progress, error] {
	return r.importSeasons(ctx, nil)
}

// ImportFromRemoteInto behaves like ImportFromRemote and also hands the
// fetched batch to keep before the first save.
func (r *SeasonRepository) ImportFromRemoteInto(ctx context.Context, keep *[]domain.Season) iter.Seq2[Progress, error] {
	return r.importSeasons(ctx, keep)
}

func (r *SeasonRepository) importSeasons(ctx context.Context, keep *[]domain.Season) iter.Seq2[Progress, error] {
	fetch := func(ctx context.Context) ([]domain.Season, error) {
		seasons, err := r.FetchFromRemote(ctx)
		if err == nil && keep != nil {
			*keep = seasons
		}
		return seasons, err
	}
	return Import(ctx, fetch, func(ctx context.Context, s domain.Season) error {
		if _, err := r.Save(ctx, s); err != nil {
			return err
		}
		r.table.metrics.Imported(r.table.Name)
		return nil
	})
}

// CurrentSeason picks the season flagged current, or nil.
func CurrentSeason(seasons []domain.Season) *domain.Season {
	for i := range seasons {
		if seasons[i].IsCurrent {
			return &seasons[i]
		}
	}
	return nil
}

// seasonCache holds the full season list. A set only lands when no
// invalidation happened since the matching get.
type seasonCache struct {
	mu      sync.RWMutex
	seasons []domain.Season
	valid   bool
	gen     uint64
	metrics *metrics.Metrics
}

func (c *seasonCache) get() ([]domain.Season, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.metrics.CacheRead("seasons_memory", c.valid)
	if !c.valid {
		return nil, c.gen, false
	}
	return append([]domain.Season(nil), c.seasons...), c.gen, true
}

func (c *seasonCache) set(seasons []domain.Season, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.seasons = append([]domain.Season(nil), seasons...)
	c.valid = true
}

func (c *seasonCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seasons = nil
	c.valid = false
	c.gen++
}
