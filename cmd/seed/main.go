package main

import (
	"context"
	"flag"
	"os"

	"storebot/config"
	"storebot/pkg/logger"
	"storebot/pkg/seed"
	"storebot/storage/postgres"
)

func main() {
	path := flag.String("file", "catalog.yaml", "catalog file to apply")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	f, err := os.Open(*path)
	if err != nil {
		log.Error("Failed to open catalog", logger.String("file", *path), logger.Error(err))
		os.Exit(1)
	}
	defer f.Close()

	catalog, err := seed.Parse(f)
	if err != nil {
		log.Error("Invalid catalog", logger.String("file", *path), logger.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()
	pg, err := postgres.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	if err := seed.Apply(ctx, pg, catalog, log); err != nil {
		log.Error("Failed to apply catalog", logger.Error(err))
		os.Exit(1)
	}
}
