package service

import (
	"context"

	"storebot/pkg/apperr"
	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type UserService interface {
	// Touch records a first contact, creating the user unapproved if needed.
	Touch(ctx context.Context, teleID int64, username string) (*models.User, error)
	Get(ctx context.Context, teleID int64) (*models.User, error)
	// RequireApproved fails with an authorization error unless the user finished registration.
	RequireApproved(ctx context.Context, teleID int64) (*models.User, error)
	PhoneAvailable(ctx context.Context, teleID int64, phone string) (bool, error)
	CompleteRegistration(ctx context.Context, reg models.Registration) (*models.User, error)
}

type userService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewUserService(stg storage.IStorage, log logger.ILogger) UserService {
	return &userService{
		stg: stg,
		log: log,
	}
}

func (s *userService) Touch(ctx context.Context, teleID int64, username string) (*models.User, error) {
	u, err := s.stg.User().GetOrCreate(ctx, teleID, username)
	return u, wrap("user.touch", err)
}

func (s *userService) Get(ctx context.Context, teleID int64) (*models.User, error) {
	u, err := s.stg.User().Get(ctx, teleID)
	return u, wrap("user.get", err)
}

func (s *userService) RequireApproved(ctx context.Context, teleID int64) (*models.User, error) {
	u, err := s.stg.User().Get(ctx, teleID)
	if err != nil {
		return nil, wrap("user.require_approved", err)
	}
	if u == nil || !u.Approved {
		return nil, apperr.E(apperr.KindAuthorization, "user.require_approved", nil)
	}
	return u, nil
}

func (s *userService) PhoneAvailable(ctx context.Context, teleID int64, phone string) (bool, error) {
	u, err := s.stg.User().GetByPhone(ctx, phone)
	if err != nil {
		return false, wrap("user.phone_available", err)
	}
	return u == nil || u.TelegramID == teleID, nil
}

// CompleteRegistration approves the user with every collected field in one
// transaction. A phone or national id held by another user is a conflict.
func (s *userService) CompleteRegistration(ctx context.Context, reg models.Registration) (*models.User, error) {
	var out *models.User
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		if u, err := tx.User().GetByPhone(ctx, reg.Phone); err != nil {
			return err
		} else if u != nil && u.TelegramID != reg.TelegramID {
			return storage.ErrPhoneTaken
		}
		if u, err := tx.User().GetByNationalID(ctx, reg.NationalID); err != nil {
			return err
		} else if u != nil && u.TelegramID != reg.TelegramID {
			return storage.ErrNationalIDTaken
		}

		u, err := tx.User().Approve(ctx, reg)
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, wrap("user.complete_registration", err)
	}
	s.log.Info("user approved", logger.Int64("telegram_id", reg.TelegramID), logger.Int64("user_id", out.ID))
	return out, nil
}
