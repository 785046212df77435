package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type lotteryRepo struct {
	db  DB
	log logger.ILogger
}

func NewLotteryRepo(db DB, log logger.ILogger) storage.ILotteryStorage {
	return &lotteryRepo{db: db, log: log}
}

const lotteryColumns = `id, name, description, is_active, max_participants, prize_description, start_date, end_date, is_drawn, created_at`

func scanLottery(row scanner) (*models.Lottery, error) {
	var l models.Lottery
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.IsActive, &l.MaxParticipants, &l.PrizeDescription, &l.StartDate, &l.EndDate, &l.IsDrawn, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lotteryRepo) getOne(ctx context.Context, query string, arg any) (*models.Lottery, error) {
	l, err := scanLottery(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get lottery", logger.Error(err))
		return nil, err
	}
	return l, nil
}

func (r *lotteryRepo) GetByID(ctx context.Context, id int64) (*models.Lottery, error) {
	return r.getOne(ctx, `SELECT `+lotteryColumns+` FROM lotteries WHERE id = $1`, id)
}

func (r *lotteryRepo) GetByName(ctx context.Context, name string) (*models.Lottery, error) {
	return r.getOne(ctx, `SELECT `+lotteryColumns+` FROM lotteries WHERE name = $1`, name)
}

func (r *lotteryRepo) GetActive(ctx context.Context) ([]*models.Lottery, error) {
	rows, err := r.db.Query(ctx, `SELECT `+lotteryColumns+` FROM lotteries WHERE is_active AND NOT is_drawn ORDER BY created_at`)
	if err != nil {
		r.log.Error("failed to list lotteries", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lotteries []*models.Lottery
	for rows.Next() {
		l, err := scanLottery(rows)
		if err != nil {
			return nil, err
		}
		lotteries = append(lotteries, l)
	}
	return lotteries, rows.Err()
}

func (r *lotteryRepo) Upsert(ctx context.Context, l *models.Lottery) (*models.Lottery, error) {
	query := `
		INSERT INTO lotteries (name, description, is_active, max_participants, prize_description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE
		SET description = EXCLUDED.description,
			is_active = EXCLUDED.is_active,
			max_participants = EXCLUDED.max_participants,
			prize_description = EXCLUDED.prize_description,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date
		RETURNING ` + lotteryColumns
	out, err := scanLottery(r.db.QueryRow(ctx, query, l.Name, l.Description, l.IsActive, l.MaxParticipants, l.PrizeDescription, l.StartDate, l.EndDate))
	if err != nil {
		r.log.Error("failed to upsert lottery", logger.String("name", l.Name), logger.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *lotteryRepo) IsParticipant(ctx context.Context, teleID, lotteryID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM lottery_participants WHERE telegram_id = $1 AND lottery_id = $2)`
	err := r.db.QueryRow(ctx, query, teleID, lotteryID).Scan(&exists)
	return exists, err
}

func (r *lotteryRepo) CountParticipants(ctx context.Context, lotteryID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM lottery_participants WHERE lottery_id = $1`, lotteryID).Scan(&count)
	return count, err
}

func (r *lotteryRepo) AddParticipant(ctx context.Context, p *models.LotteryParticipant) (*models.LotteryParticipant, error) {
	out := *p
	query := `
		INSERT INTO lottery_participants (telegram_id, username, phone, lottery_id, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, p.TelegramID, p.Username, p.Phone, p.LotteryID, p.IsVerified).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return nil, storage.ErrAlreadyParticipant
		}
		r.log.Error("failed to add lottery participant", logger.Int64("lottery_id", p.LotteryID), logger.Error(err))
		return nil, err
	}
	return &out, nil
}
