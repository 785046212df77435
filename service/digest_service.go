package service

import (
	"context"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

// Digest is the backlog summary sent to admins on a schedule.
type Digest struct {
	PendingOrders      int
	UnpaidSlots        int
	OpenCRM            int
	PendingCooperation int
	ApprovedUsers      int
}

type DigestService interface {
	Build(ctx context.Context) (Digest, error)
}

type digestService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewDigestService(stg storage.IStorage, log logger.ILogger) DigestService {
	return &digestService{
		stg: stg,
		log: log,
	}
}

func (s *digestService) Build(ctx context.Context) (Digest, error) {
	var (
		d   Digest
		err error
	)
	if d.PendingOrders, err = s.stg.Order().CountByStatus(ctx, models.OrderPending); err != nil {
		return d, wrap("digest.pending_orders", err)
	}
	if d.UnpaidSlots, err = s.stg.Order().CountUnpaidSlots(ctx); err != nil {
		return d, wrap("digest.unpaid_slots", err)
	}
	if d.OpenCRM, err = s.stg.CRM().CountUncalled(ctx); err != nil {
		return d, wrap("digest.open_crm", err)
	}
	if d.PendingCooperation, err = s.stg.Cooperation().CountByStatus(ctx, models.CooperationPending); err != nil {
		return d, wrap("digest.pending_cooperation", err)
	}
	if d.ApprovedUsers, err = s.stg.User().CountApproved(ctx); err != nil {
		return d, wrap("digest.approved_users", err)
	}
	return d, nil
}
