package postgres

import (
	"context"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type cooperationRepo struct {
	db  DB
	log logger.ILogger
}

func NewCooperationRepo(db DB, log logger.ILogger) storage.ICooperationStorage {
	return &cooperationRepo{db: db, log: log}
}

func (r *cooperationRepo) Upsert(ctx context.Context, c *models.Cooperation) (*models.Cooperation, bool, error) {
	var (
		out      models.Cooperation
		status   string
		inserted bool
	)
	query := `
		INSERT INTO cooperations (telegram_id, username, phone, city, resume_text, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
			phone = EXCLUDED.phone,
			city = EXCLUDED.city,
			resume_text = EXCLUDED.resume_text,
			status = 'pending',
			updated_at = NOW()
		RETURNING id, telegram_id, username, phone, city, resume_text, status, created_at, updated_at, (xmax = 0)`
	err := r.db.QueryRow(ctx, query, c.TelegramID, c.Username, c.Phone, c.City, c.ResumeText).Scan(
		&out.ID, &out.TelegramID, &out.Username, &out.Phone, &out.City, &out.ResumeText, &status, &out.CreatedAt, &out.UpdatedAt, &inserted,
	)
	if err != nil {
		r.log.Error("failed to upsert cooperation", logger.Int64("telegram_id", c.TelegramID), logger.Error(err))
		return nil, false, err
	}
	out.Status = models.CooperationStatus(status)
	return &out, inserted, nil
}

func (r *cooperationRepo) CountByStatus(ctx context.Context, status models.CooperationStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM cooperations WHERE status = $1", string(status)).Scan(&count)
	return count, err
}
