package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"ifore/cli"

	_ "time/tzdata"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	app := cli.New(cli.Options{Output: os.Stdout, Log: os.Stderr})
	if err := app.Execute(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("ifore failed")
	}
}
