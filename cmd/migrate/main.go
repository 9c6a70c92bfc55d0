package main

import (
	"flag"
	"os"

	"github.com/Rrens/careops/internal/config"
	"github.com/Rrens/careops/internal/logger"
	"github.com/Rrens/careops/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	source := flag.String("source", "", "migration source URL (default: server.migrations_path)")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if _, err := logger.Setup(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	sourceURL := *source
	if sourceURL == "" {
		sourceURL = cfg.Server.MigrationsPath
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("source", sourceURL).
		Msg("Connecting to database")

	if *down > 0 {
		err = postgres.RollbackMigrations(cfg.Database.DSN(), sourceURL, *down)
	} else {
		err = postgres.RunMigrations(cfg.Database.DSN(), sourceURL)
	}
	if err != nil {
		log.Error().Err(err).Msg("Migration failed")
		os.Exit(1)
	}
}
