// Package cli wires configuration, storage and the analytics service into
// the ifore command line: an HTTP server and terminal reports.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ifore/analytics"
	"ifore/cache"
	"ifore/config"
	"ifore/database"
	"ifore/forecast"
	"ifore/store"
)

// CLI represents the command-line interface
type CLI struct {
	rootCmd      *cobra.Command
	out          io.Writer
	logger       zerolog.Logger
	cfg          *config.Config
	configPath   string
	snapshotPath string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Log    io.Writer
}

// New creates a new CLI instance
func New(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	cli := &CLI{
		out:    opts.Output,
		logger: zerolog.New(opts.Log).With().Timestamp().Logger(),
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context, args ...string) error {
	if args != nil {
		cli.rootCmd.SetArgs(args)
	}
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ifore",
		Short:         "Sales analytics and forecasting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.loadConfig()
		},
	}
	cmd.SetOut(cli.out)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&cli.snapshotPath, "snapshot", "", "Read transactions from a JSON snapshot instead of Postgres")

	cmd.AddCommand(cli.newServeCmd())
	cmd.AddCommand(cli.newReportCmd())
	return cmd
}

func (cli *CLI) loadConfig() error {
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	cli.logger = cli.logger.Level(level)
	cli.cfg = cfg
	config.AppConfig = *cfg
	return nil
}

// runtime is everything a command needs to answer queries.
type runtime struct {
	store   store.TransactionStore
	service *analytics.Service
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// openStore picks the snapshot store when --snapshot is set and Postgres
// otherwise.
func (cli *CLI) openStore(ctx context.Context) (store.TransactionStore, func(), error) {
	if cli.snapshotPath != "" {
		m, err := store.LoadSnapshot(cli.snapshotPath)
		if err != nil {
			return nil, nil, err
		}
		cli.logger.Info().Str("path", cli.snapshotPath).Msg("using snapshot store")
		return m, func() {}, nil
	}

	db, err := database.Connect(ctx, cli.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgres(db), func() { database.Close(ctx, db) }, nil
}

func (cli *CLI) openCache(ctx context.Context) (cache.SeriesCache, func()) {
	if !cli.cfg.CacheEnabled() {
		return cache.Noop{}, func() {}
	}
	client, err := cache.Dial(ctx, cli.cfg.RedisURL)
	if err != nil {
		cli.logger.Warn().Err(err).Msg("series cache disabled")
		return cache.Noop{}, func() {}
	}
	cli.logger.Info().Dur("ttl", cli.cfg.SeriesCacheTTL).Msg("series cache enabled")
	return cache.NewRedis(client, cli.cfg.SeriesCacheTTL), func() { _ = client.Close() }
}

func (cli *CLI) newRuntime(ctx context.Context) (*runtime, error) {
	ctx = cli.logger.WithContext(ctx)
	rt := &runtime{}

	st, closeStore, err := cli.openStore(ctx)
	if err != nil {
		return nil, err
	}
	rt.store = st
	rt.closers = append(rt.closers, closeStore)

	seriesCache, closeCache := cli.openCache(ctx)
	rt.closers = append(rt.closers, closeCache)

	analyticsCfg, err := cli.analyticsConfig()
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.service = analytics.NewService(st, analyticsCfg, analytics.WithCache(seriesCache))
	return rt, nil
}

func (cli *CLI) analyticsConfig() (analytics.Config, error) {
	loc, err := cli.cfg.Location()
	if err != nil {
		return analytics.Config{}, err
	}
	epoch, err := cli.cfg.Epoch()
	if err != nil {
		return analytics.Config{}, err
	}
	forest := forecast.DefaultOptions()
	forest.Seed = cli.cfg.ForecastSeed
	forest.NEstimators = cli.cfg.ForecastEstimators
	forest.MaxFeatures = cli.cfg.ForecastMaxFeatures

	return analytics.Config{
		Epoch:              epoch,
		Location:           loc,
		ForecastCategories: cli.cfg.ForecastCategories,
		Horizon:            cli.cfg.ForecastHorizon,
		Forest:             forest,
	}, nil
}
