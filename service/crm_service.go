package service

import (
	"context"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type CRMService interface {
	// Request opens a consultation request for phone. A repeated phone starts
	// over as an uncalled request. created reports whether the phone was new.
	Request(ctx context.Context, phone string) (req *models.CRMRequest, created bool, err error)
}

type crmService struct {
	stg storage.ICRMStorage
	log logger.ILogger
}

func NewCRMService(stg storage.IStorage, log logger.ILogger) CRMService {
	return &crmService{
		stg: stg.CRM(),
		log: log,
	}
}

func (s *crmService) Request(ctx context.Context, phone string) (*models.CRMRequest, bool, error) {
	req, created, err := s.stg.Upsert(ctx, phone)
	if err != nil {
		return nil, false, wrap("crm.request", err)
	}
	s.log.Info("crm request stored", logger.Int64("crm_id", req.ID), logger.Bool("created", created))
	return req, created, nil
}
