package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type referralRepo struct {
	db  DB
	log logger.ILogger
}

func NewReferralRepo(db DB, log logger.ILogger) storage.IReferralStorage {
	return &referralRepo{db: db, log: log}
}

const (
	referralColumns = `id, owner_id, code, product, installment, grade, is_active, usage_limit, current_usage, created_at`
	sellerColumns   = `id, name, telegram_id, phone, is_active, created_at`
)

func scanReferral(row scanner) (*models.ReferralCode, error) {
	var (
		c       models.ReferralCode
		product string
		grade   *int
	)
	err := row.Scan(&c.ID, &c.OwnerID, &c.Code, &product, &c.Installment, &grade, &c.IsActive, &c.UsageLimit, &c.CurrentUsage, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Product = models.ReferralProduct(product)
	if grade != nil {
		g := models.Grade(*grade)
		c.Grade = &g
	}
	return &c, nil
}

func scanSeller(row scanner) (*models.Seller, error) {
	var s models.Seller
	if err := row.Scan(&s.ID, &s.Name, &s.TelegramID, &s.Phone, &s.IsActive, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *referralRepo) GetByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	c, err := scanReferral(r.db.QueryRow(ctx, `SELECT `+referralColumns+` FROM referral_codes WHERE lower(code) = lower($1)`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get referral code", logger.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *referralRepo) GetSeller(ctx context.Context, id int64) (*models.Seller, error) {
	s, err := scanSeller(r.db.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get seller", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return s, nil
}

func (r *referralRepo) UpsertSeller(ctx context.Context, s *models.Seller) (*models.Seller, error) {
	query := `
		INSERT INTO sellers (name, telegram_id, phone, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET telegram_id = EXCLUDED.telegram_id,
			phone = EXCLUDED.phone,
			is_active = EXCLUDED.is_active
		RETURNING ` + sellerColumns
	out, err := scanSeller(r.db.QueryRow(ctx, query, s.Name, s.TelegramID, s.Phone, s.IsActive))
	if err != nil {
		r.log.Error("failed to upsert seller", logger.String("name", s.Name), logger.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *referralRepo) UpsertCode(ctx context.Context, c *models.ReferralCode) (*models.ReferralCode, error) {
	var grade *int
	if c.Grade != nil {
		g := int(*c.Grade)
		grade = &g
	}
	query := `
		INSERT INTO referral_codes (owner_id, code, product, installment, grade, is_active, usage_limit)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE
		SET owner_id = EXCLUDED.owner_id,
			product = EXCLUDED.product,
			installment = EXCLUDED.installment,
			grade = EXCLUDED.grade,
			is_active = EXCLUDED.is_active,
			usage_limit = EXCLUDED.usage_limit
		RETURNING ` + referralColumns
	out, err := scanReferral(r.db.QueryRow(ctx, query, c.OwnerID, c.Code, string(c.Product), c.Installment, grade, c.IsActive, c.UsageLimit))
	if err != nil {
		r.log.Error("failed to upsert referral code", logger.String("code", c.Code), logger.Error(err))
		return nil, err
	}
	return out, nil
}
