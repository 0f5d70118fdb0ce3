package fx

import (
	"context"
	"ttscore/internal/api"
	"ttscore/internal/constants"
	"ttscore/internal/database"
	"ttscore/internal/metrics"
	"ttscore/internal/repository"
	"ttscore/internal/server"
	"ttscore/internal/service"
	"ttscore/internal/settings"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module wires everything below the command line. The caller supplies the
// *config.Config and zerolog.Logger.
var Module = fx.Options(
	fx.Provide(database.New),
	fx.Provide(metrics.New),
	fx.Provide(fx.Annotate(api.NewTabTClient, fx.As(new(api.TabT)))),
	fx.Provide(fx.Annotate(settings.NewFileStore, fx.As(new(settings.Store)))),
	// repos
	fx.Provide(repository.NewSeasonRepository),
	fx.Provide(repository.NewClubRepository),
	fx.Provide(repository.NewClubMemberRepository),
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewTeamMatchRepository),
	fx.Provide(repository.NewDivisionRankingRepository),
	fx.Provide(repository.NewFavoriteRepository),
	// svc
	fx.Provide(service.NewImportService),
	fx.Provide(service.NewCatalogService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewFavoritesService),
	fx.Provide(service.NewSelectionService),
	// server
	fx.Provide(server.NewServer),
	fx.Invoke(registerDatabase),
)

// registerDatabase brings the schema up to date when the app starts and
// closes the store when it stops.
func registerDatabase(lc fx.Lifecycle, db *database.DB, m *metrics.Metrics, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, constants.MigrationTimeout)
			defer cancel()

			from, to, err := database.NewMigrator(db, logger).Migrate(ctx)
			if err != nil {
				return err
			}
			for range to - from {
				m.MigrationApplied()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}
