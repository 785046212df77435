package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type userRepo struct {
	db  DB
	log logger.ILogger
}

func NewUserRepo(db DB, log logger.ILogger) storage.IUserStorage {
	return &userRepo{db: db, log: log}
}

const userColumns = `id, telegram_id, username, full_name, city, area, national_id, phone, approved, approved_at, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.City, &u.Area, &u.NationalID, &u.Phone, &u.Approved, &u.ApprovedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) getOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to "+op, logger.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetOrCreate(ctx context.Context, teleID int64, username string) (*models.User, error) {
	query := `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, teleID, username))
	if err != nil {
		r.log.Error("failed to get or create user", logger.Int64("telegram_id", teleID), logger.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Get(ctx context.Context, teleID int64) (*models.User, error) {
	return r.getOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, teleID)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOne(ctx, "get user by phone", `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

func (r *userRepo) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	return r.getOne(ctx, "get user by national id", `SELECT `+userColumns+` FROM users WHERE national_id = $1`, nationalID)
}

func (r *userRepo) Approve(ctx context.Context, reg models.Registration) (*models.User, error) {
	query := `
		INSERT INTO users (telegram_id, username, full_name, city, area, national_id, phone, approved, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW())
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			city = EXCLUDED.city,
			area = EXCLUDED.area,
			national_id = EXCLUDED.national_id,
			phone = EXCLUDED.phone,
			approved = TRUE,
			approved_at = COALESCE(users.approved_at, NOW()),
			updated_at = NOW()
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query,
		reg.TelegramID, reg.Username, reg.FullName, reg.City, reg.Area, reg.NationalID, reg.Phone,
	))
	if err != nil {
		switch name, _ := uniqueConstraint(err); name {
		case "users_phone_key":
			return nil, storage.ErrPhoneTaken
		case "users_national_id_key":
			return nil, storage.ErrNationalIDTaken
		}
		r.log.Error("failed to approve user", logger.Int64("telegram_id", reg.TelegramID), logger.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *userRepo) CountApproved(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM users WHERE approved").Scan(&count)
	return count, err
}
