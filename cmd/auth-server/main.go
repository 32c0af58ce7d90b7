package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/teamdeck/auth-service/internal/app"
	"github.com/teamdeck/auth-service/internal/config"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	a, err := app.New(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}

	if err := a.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
