package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ifore/handlers"
	"ifore/insight"
	"ifore/routes"
)

const shutdownTimeout = 10 * time.Second

func (cli *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return cli.serve(ctx)
		},
	}
}

func (cli *CLI) serve(ctx context.Context) error {
	if cli.cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if cli.snapshotPath == "" && cli.cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	ctx = cli.logger.WithContext(ctx)

	rt, err := cli.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	var explainer handlers.Explainer
	if cli.cfg.GeminiAPIKey != "" {
		gem, err := insight.NewGemini(ctx, cli.cfg.GeminiAPIKey, cli.cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer gem.Close()
		explainer = insight.NewAnalyst(gem)
	} else {
		cli.logger.Warn().Msg("GEMINI_API_KEY is not set, prediction insight disabled")
	}

	loc, err := cli.cfg.Location()
	if err != nil {
		return err
	}
	h := handlers.New(rt.service, rt.store, explainer, loc)
	app := routes.NewApp(h, &cli.logger, cli.cfg.AllowedOrigins)

	errc := make(chan error, 1)
	go func() {
		cli.logger.Info().Str("addr", cli.cfg.ServerAddr).Msg("server listening")
		errc <- app.Listen(cli.cfg.ServerAddr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	cli.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
