package repository

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"ttscore/internal/constants"
	"ttscore/internal/database"
	"ttscore/internal/metrics"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Progress is one snapshot of a running import.
type Progress struct {
	Imported  int
	Total     int
	Completed bool
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func Where(eq sq.Eq) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(eq)
	}
}

func OrderBy(columns ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy(columns...)
	}
}

// Table maps one entity type onto one local table. Columns lists every
// column in declared order; Scan and Values must agree with it. KeyColumns
// is the natural key and Key must return values in the same order.
// ZeroKeyColumns names key columns whose zero value is a real key.
type Table[E any] struct {
	Name           string
	Columns        []string
	KeyColumns     []string
	ZeroKeyColumns []string
	Scan       func(database.Row) E
	Values     func(E) []any
	Key        func(E) []any

	db      *database.DB
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func (t *Table[E]) bind(db *database.DB, m *metrics.Metrics, logger zerolog.Logger) *Table[E] {
	t.db = db
	t.metrics = m
	t.logger = logger.With().Str("table", t.Name).Logger()
	return t
}

// Get returns the row with the given natural key, or nil when there is none.
// A key with an absent component (nil, "" or 0) is never queried.
func (t *Table[E]) Get(ctx context.Context, key ...any) (*E, error) {
	if t.absentKey(key) {
		return nil, nil
	}

	rows, err := t.List(ctx, Where(t.keyEq(key)))
	if err != nil {
		return nil, err
	}

	t.metrics.CacheRead(t.Name, len(rows) > 0)
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (t *Table[E]) Exists(ctx context.Context, key ...any) (bool, error) {
	entity, err := t.Get(ctx, key...)
	if err != nil {
		return false, err
	}
	return entity != nil, nil
}

func (t *Table[E]) List(ctx context.Context, opts ...ListOption) ([]E, error) {
	builder := sq.Select(t.Columns...).From(t.Name)
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s select: %w", t.Name, err)
	}

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	entities := make([]E, len(rows))
	for i, row := range rows {
		entities[i] = t.Scan(row)
	}
	return entities, nil
}

// Save inserts the entity, or updates every non-key column when a row with
// the same natural key already exists.
func (t *Table[E]) Save(ctx context.Context, entity E) error {
	key := t.Key(entity)
	exists, err := t.Exists(ctx, key...)
	if err != nil {
		return err
	}

	var query string
	var args []any
	if exists {
		query, args, err = t.updateSQL(entity, key)
	} else {
		query, args, err = sq.Insert(t.Name).Columns(t.Columns...).Values(t.Values(entity)...).ToSql()
	}
	if err != nil {
		return fmt.Errorf("build %s save: %w", t.Name, err)
	}

	if _, err := t.db.Execute(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

func (t *Table[E]) Delete(ctx context.Context, key ...any) (int64, error) {
	if t.absentKey(key) {
		return 0, nil
	}

	query, args, err := sq.Delete(t.Name).Where(t.keyEq(key)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s delete: %w", t.Name, err)
	}
	return t.db.Execute(ctx, query, args...)
}

// Import fetches the remote list and saves every entity through Save.
func (t *Table[E]) Import(ctx context.Context, fetch func(context.Context) ([]E, error)) iter.Seq2[Progress, error] {
	return Import(ctx, fetch, func(ctx context.Context, entity E) error {
		if err := t.Save(ctx, entity); err != nil {
			return err
		}
		t.metrics.Imported(t.Name)
		return nil
	})
}

func (t *Table[E]) updateSQL(entity E, key []any) (string, []any, error) {
	isKey := make(map[string]bool, len(t.KeyColumns))
	for _, c := range t.KeyColumns {
		isKey[c] = true
	}

	builder := sq.Update(t.Name)
	for i, v := range t.Values(entity) {
		if !isKey[t.Columns[i]] {
			builder = builder.Set(t.Columns[i], v)
		}
	}
	return builder.Where(t.keyEq(key)).ToSql()
}

func (t *Table[E]) keyEq(key []any) sq.Eq {
	eq := sq.Eq{}
	for i, c := range t.KeyColumns {
		eq[c] = key[i]
	}
	return eq
}

func (t *Table[E]) absentKey(key []any) bool {
	if len(key) != len(t.KeyColumns) {
		return true
	}
	for i, k := range key {
		if slices.Contains(t.ZeroKeyColumns, t.KeyColumns[i]) {
			continue
		}
		switch v := k.(type) {
		case nil:
			return true
		case string:
			if v == "" {
				return true
			}
		case int:
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// Import runs fetch once, then saves every entity concurrently and yields a
// progress value per finished save. The sequence is single use and stops
// after the first error. An empty fetch yields exactly one completed value.
func Import[E any](ctx context.Context, fetch func(context.Context) ([]E, error), save func(context.Context, E) error) iter.Seq2[Progress, error] {
	return func(yield func(Progress, error) bool) {
		entities, err := fetch(ctx)
		if err != nil {
			yield(Progress{}, err)
			return
		}

		total := len(entities)
		if total == 0 {
			yield(Progress{Completed: true}, nil)
			return
		}

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		g, gctx := errgroup.WithContext(runCtx)
		g.SetLimit(constants.ImportConcurrency)

		var waitErr error
		results := make(chan error)
		go func() {
			defer close(results)
			for _, entity := range entities {
				if gctx.Err() != nil {
					break
				}
				g.Go(func() error {
					err := save(gctx, entity)
					select {
					case results <- err:
					case <-gctx.Done():
					}
					return err
				})
			}
			waitErr = g.Wait()
		}()

		// in-flight saves must finish before the sequence returns
		defer func() {
			cancel()
			for range results {
			}
		}()

		imported := 0
		for err := range results {
			if err != nil {
				yield(Progress{Imported: imported, Total: total}, err)
				return
			}
			imported++
			if !yield(Progress{Imported: imported, Total: total, Completed: imported == total}, nil) {
				return
			}
		}

		if imported < total {
			if waitErr == nil {
				waitErr = ctx.Err()
			}
			yield(Progress{Imported: imported, Total: total}, fmt.Errorf("import stopped after %d of %d: %w", imported, total, waitErr))
		}
	}
}

// Drain consumes an import sequence and returns its last progress value.
func Drain(seq iter.Seq2[Progress, error]) (Progress, error) {
	var last Progress
	for p, err := range seq {
		if err != nil {
			return p, err
		}
		last = p
	}
	return last, nil
}
