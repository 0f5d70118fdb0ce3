package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"ttscore/internal/config"
	"ttscore/internal/constants"
	"ttscore/internal/database"
	fxmodules "ttscore/internal/fx"
	"ttscore/internal/logger"
	"ttscore/internal/repository"
	"ttscore/internal/server"
	"ttscore/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "ttscore",
		Short:         "Table tennis results from TabT, mirrored into a local cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	setupFlags(rootCmd)
	rootCmd.AddCommand(
		migrateCmd(),
		importCmd(),
		seasonsCmd(),
		clubsCmd(),
		membersCmd(),
		memberCmd(),
		teamsCmd(),
		matchesCmd(),
		matchCmd(),
		rankingCmd(),
		favoritesCmd(),
		selectCmd(),
		serveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("tabt-base-url", defaults.GetString("tabt.base_url"), "TabT endpoint")
	cmd.PersistentFlags().String("settings-path", defaults.GetString("settings.path"), "Settings file path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address for serve")

	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "tabt.base_url", "tabt-base-url")
	bindFlag(cmd, "settings.path", "settings-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "http.address", "http-address")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

// loadConfig builds the configuration and a logger at the configured level.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	bootstrap := logger.New()
	cfg, err := config.Load(viper.GetViper(), bootstrap)
	if err != nil {
		return nil, bootstrap, err
	}
	return cfg, logger.SetLevel(logger.ParseLevel(cfg.LogLevel)), nil
}

// deps is what the short-lived commands need from the container.
type deps struct {
	fx.In

	Importer  *service.ImportService
	Catalog   *service.CatalogService
	Matches   *service.MatchService
	Favorites *service.FavoritesService
	Selection *service.SelectionService
	Seasons   *repository.SeasonRepository
	DB        *database.DB
}

// withApp starts the container (which migrates the store), runs fn and
// stops it again.
func withApp(ctx context.Context, fn func(ctx context.Context, d deps) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	var d deps
	app := fx.New(
		fx.Supply(cfg, log),
		fxmodules.Module,
		fx.NopLogger,
		fx.Invoke(func(in deps) { d = in }),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, constants.MigrationTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			log.Warn().Err(err).Msg("error stopping app")
		}
	}()

	return fn(ctx, d)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local cache as JSON over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			fx.New(
				fx.Supply(cfg, log),
				fxmodules.Module,
				fx.NopLogger,
				fx.Invoke(runServer),
			).Run()
			return nil
		},
	}
}

func runServer(
	lc fx.Lifecycle,
	srv *server.Server,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: srv.Routes(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", httpServer.Addr).Msg("server starting")
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
