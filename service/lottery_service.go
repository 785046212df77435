package service

import (
	"context"
	"time"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type JoinLottery struct {
	LotteryID  int64
	TelegramID int64
	Username   string
	Phone      string
}

type LotteryService interface {
	Active(ctx context.Context) ([]*models.Lottery, error)
	// Select finds an active lottery by name for teleID. It returns (nil, nil)
	// for an unknown name. When the user already joined it or it no longer
	// accepts participants, the lottery comes back with a conflict error.
	Select(ctx context.Context, teleID int64, name string) (*models.Lottery, error)
	// Join repeats the Select checks and adds the verified participant.
	Join(ctx context.Context, in JoinLottery) (*models.LotteryParticipant, error)
}

type lotteryService struct {
	stg storage.IStorage
	log logger.ILogger
	now func() time.Time
}

func NewLotteryService(stg storage.IStorage, log logger.ILogger) LotteryService {
	return &lotteryService{
		stg: stg,
		log: log,
		now: time.Now,
	}
}

func (s *lotteryService) Active(ctx context.Context) ([]*models.Lottery, error) {
	lotteries, err := s.stg.Lottery().GetActive(ctx)
	return lotteries, wrap("lottery.active", err)
}

func (s *lotteryService) Select(ctx context.Context, teleID int64, name string) (*models.Lottery, error) {
	l, err := s.stg.Lottery().GetByName(ctx, name)
	if err != nil {
		return nil, wrap("lottery.select", err)
	}
	if l == nil || !l.IsActive {
		return nil, nil
	}
	return l, wrap("lottery.select", s.admit(ctx, s.stg, l, teleID))
}

func (s *lotteryService) admit(ctx context.Context, stg storage.IStorage, l *models.Lottery, teleID int64) error {
	joined, err := stg.Lottery().IsParticipant(ctx, teleID, l.ID)
	if err != nil {
		return err
	}
	if joined {
		return storage.ErrAlreadyParticipant
	}
	n, err := stg.Lottery().CountParticipants(ctx, l.ID)
	if err != nil {
		return err
	}
	if !l.Open(n, s.now()) {
		return ErrLotteryClosed
	}
	return nil
}

func (s *lotteryService) Join(ctx context.Context, in JoinLottery) (*models.LotteryParticipant, error) {
	var out *models.LotteryParticipant
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		l, err := tx.Lottery().GetByID(ctx, in.LotteryID)
		if err != nil {
			return err
		}
		if l == nil {
			return storage.ErrNotFound
		}
		if err := s.admit(ctx, tx, l, in.TelegramID); err != nil {
			return err
		}
		out, err = tx.Lottery().AddParticipant(ctx, &models.LotteryParticipant{
			TelegramID: in.TelegramID,
			Username:   in.Username,
			Phone:      in.Phone,
			LotteryID:  l.ID,
			IsVerified: true,
		})
		return err
	})
	if err != nil {
		return nil, wrap("lottery.join", err)
	}

	s.log.Info("lottery joined", logger.Int64("lottery_id", in.LotteryID), logger.Int64("telegram_id", in.TelegramID))
	return out, nil
}
