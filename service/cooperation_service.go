package service

import (
	"context"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type CooperationService interface {
	// Submit stores the application keyed by telegram id. Resubmitting
	// replaces the previous one and puts it back to pending.
	Submit(ctx context.Context, c *models.Cooperation) (coop *models.Cooperation, created bool, err error)
}

type cooperationService struct {
	stg storage.ICooperationStorage
	log logger.ILogger
}

func NewCooperationService(stg storage.IStorage, log logger.ILogger) CooperationService {
	return &cooperationService{
		stg: stg.Cooperation(),
		log: log,
	}
}

func (s *cooperationService) Submit(ctx context.Context, c *models.Cooperation) (*models.Cooperation, bool, error) {
	coop, created, err := s.stg.Upsert(ctx, c)
	if err != nil {
		return nil, false, wrap("cooperation.submit", err)
	}
	s.log.Info("cooperation stored", logger.Int64("telegram_id", coop.TelegramID), logger.Bool("created", created))
	return coop, created, nil
}
