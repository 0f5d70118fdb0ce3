package database

import (
	"context"
	"fmt"
	"ttscore/internal/constants"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Steps holds the schema upgrade scripts. Step i moves the store from
// version i to version i+1. Statements within one step must not depend on
// each other: they are issued concurrently.
var Steps = [][]string{
	// 0 -> 1
	{
		`CREATE TABLE IF NOT EXISTS seasons (id INTEGER PRIMARY KEY, name TEXT, isCurrent BOOLEAN)`,
		`CREATE TABLE IF NOT EXISTS clubs (uniqueId TEXT, seasonId INTEGER, name TEXT, longName TEXT, categoryId INTEGER)`,
		`CREATE TABLE IF NOT EXISTS clubmembers (position INTEGER, uniqueIndex INTEGER, rankingIndex INTEGER, firstName TEXT, lastName TEXT, ranking TEXT, seasonId INTEGER, clubId TEXT)`,
		`CREATE TABLE IF NOT EXISTS divisionrankings (divisionId INTEGER, position INTEGER, team TEXT, gamesPlayed INTEGER, gamesWon INTEGER, gamesLost INTEGER, gamesDraw INTEGER, individualMatchesWon INTEGER, individualMatchesLost INTEGER, individualSetsWon INTEGER, individualSetsLost INTEGER, points INTEGER, teamClubId TEXT)`,
	},
	// 1 -> 2
	{
		`CREATE TABLE IF NOT EXISTS teams (teamId TEXT, team TEXT, divisionId INTEGER, divisionName TEXT, divisionCategoryId INTEGER, clubId TEXT, seasonId INTEGER)`,
		`CREATE TABLE IF NOT EXISTS matches (divisionId INTEGER, matchId TEXT, teamId TEXT, weekName TEXT, date TEXT, time TEXT, venue INTEGER, homeClubId TEXT, homeTeam TEXT, awayClubId TEXT, awayTeam TEXT, isHomeForfeited INTEGER, isAwayForfeited INTEGER, score TEXT)`,
		`CREATE TABLE IF NOT EXISTS teamfavorites (seasonId INTEGER, clubId TEXT, teamId TEXT)`,
	},
	// 2 -> 3; additive, relies on the version gate to run once
	{
		`ALTER TABLE matches ADD COLUMN matchUniqueIndex INTEGER`,
	},
}

type Migrator struct {
	db     *DB
	steps  [][]string
	target int
	logger zerolog.Logger
}

func NewMigrator(db *DB, logger zerolog.Logger) *Migrator {
	return NewMigratorWithSteps(db, Steps, constants.SchemaVersion, logger)
}

func NewMigratorWithSteps(db *DB, steps [][]string, target int, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		steps:  steps,
		target: target,
		logger: logger.With().Str("component", "migrator").Logger(),
	}
}

func (m *Migrator) Target() int {
	return m.target
}

// Migrate brings the store from its persisted version up to the target.
// The version is written once, after every pending step succeeded. On
// failure the stored version is left untouched so a later run retries
// from the same point.
func (m *Migrator) Migrate(ctx context.Context) (from, to int, err error) {
	if m.target > len(m.steps) {
		return 0, 0, fmt.Errorf("%w: target version %d but only %d steps defined", ErrMigrationFailed, m.target, len(m.steps))
	}

	current, err := m.db.UserVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: read version: %w", ErrMigrationFailed, err)
	}

	if current >= m.target {
		m.logger.Debug().Int("version", current).Msg("schema up to date")
		return current, current, nil
	}

	m.logger.Info().Int("from", current).Int("to", m.target).Msg("migrating schema")

	for step := current; step < m.target; step++ {
		if err := m.runStep(ctx, step); err != nil {
			m.logger.Error().Err(err).Int("step", step).Msg("migration step failed")
			return current, current, fmt.Errorf("%w: step %d: %w", ErrMigrationFailed, step, err)
		}
		m.logger.Debug().Int("step", step).Msg("migration step applied")
	}

	if err := m.db.SetUserVersion(ctx, m.target); err != nil {
		return current, current, fmt.Errorf("%w: persist version: %w", ErrMigrationFailed, err)
	}

	m.logger.Info().Int("version", m.target).Msg("migrations completed successfully")
	return current, m.target, nil
}

func (m *Migrator) runStep(ctx context.Context, step int) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MigrationStatements)

	for _, stmt := range m.steps[step] {
		g.Go(func() error {
			_, err := m.db.Execute(gCtx, stmt)
			return err
		})
	}

	return g.Wait()
}
