package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/runtime/terminal"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("failed to load .env file")
	}

	cli := terminal.NewCLI(terminal.Options{
		Logger: &logger,
		Output: os.Stdout,
	})

	if err := cli.Execute(context.Background()); err != nil {
		logger.Error().Err(err).Msg("chargeback export failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failed run to the process status: 2 for invalid input or
// configuration, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case domain.IsConfigurationError(err):
		return 2
	default:
		return 1
	}
}
