package main

import (
	"context"
	"os"

	"storebot/config"
	"storebot/pkg/logger"
	"storebot/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	// Customer data only. Products, sellers, referral codes and lotteries are
	// kept; they come from the seed file.
	_, err = pg.GetPool().Exec(context.Background(),
		"TRUNCATE TABLE order_files, orders, files, lottery_participants, crm_requests, cooperations, users RESTART IDENTITY CASCADE")
	if err != nil {
		log.Error("Failed to truncate tables", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Successfully truncated customer tables")
}
