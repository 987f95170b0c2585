package main

import (
	"context"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/dbmigrate"
	"github.com/fdg312/meal-planner/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg)

	if len(os.Args) < 2 {
		logger.Fatal().Msgf("usage: go run ./cmd/migrate [%s]", strings.Join(dbmigrate.Commands, "|"))
	}

	command := os.Args[1]
	if !dbmigrate.IsCommand(command) {
		logger.Fatal().Msgf("unsupported command %q (allowed: %s)", command, strings.Join(dbmigrate.Commands, ", "))
	}

	sel, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	if sel.Warning != "" {
		logger.Warn().Msg("migrate: " + sel.Warning)
	}
	logger.Info().Str("command", command).Str("using", sel.Source).Msg("migrate")

	if err := dbmigrate.Run(context.Background(), command, sel.URL, dbmigrate.DefaultMigrationsDir); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	logger.Info().Msgf("migrate: %s completed successfully", command)
}
