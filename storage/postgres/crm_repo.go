package postgres

import (
	"context"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type crmRepo struct {
	db  DB
	log logger.ILogger
}

func NewCRMRepo(db DB, log logger.ILogger) storage.ICRMStorage {
	return &crmRepo{db: db, log: log}
}

func (r *crmRepo) Upsert(ctx context.Context, phone string) (*models.CRMRequest, bool, error) {
	var (
		req      models.CRMRequest
		inserted bool
	)
	query := `
		INSERT INTO crm_requests (phone)
		VALUES ($1)
		ON CONFLICT (phone) DO UPDATE
		SET called = FALSE, notes = NULL, priority = 1, updated_at = NOW()
		RETURNING id, phone, called, notes, priority, created_at, updated_at, (xmax = 0)`
	err := r.db.QueryRow(ctx, query, phone).Scan(
		&req.ID, &req.Phone, &req.Called, &req.Notes, &req.Priority, &req.CreatedAt, &req.UpdatedAt, &inserted,
	)
	if err != nil {
		r.log.Error("failed to upsert crm request", logger.Error(err))
		return nil, false, err
	}
	return &req, inserted, nil
}

func (r *crmRepo) CountUncalled(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM crm_requests WHERE NOT called").Scan(&count)
	return count, err
}
