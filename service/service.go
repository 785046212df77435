package service

import (
	"github.com/pkg/errors"

	"storebot/pkg/apperr"
	"storebot/pkg/logger"
	"storebot/storage"
)

type IServiceManager interface {
	User() UserService
	Catalog() CatalogService
	Order() OrderService
	Lottery() LotteryService
	CRM() CRMService
	Cooperation() CooperationService
	Digest() DigestService
}

type service struct {
	userService        UserService
	catalogService     CatalogService
	orderService       OrderService
	lotteryService     LotteryService
	crmService         CRMService
	cooperationService CooperationService
	digestService      DigestService
}

func New(stg storage.IStorage, log logger.ILogger) IServiceManager {
	return &service{
		userService:        NewUserService(stg, log),
		catalogService:     NewCatalogService(stg, log),
		orderService:       NewOrderService(stg, log),
		lotteryService:     NewLotteryService(stg, log),
		crmService:         NewCRMService(stg, log),
		cooperationService: NewCooperationService(stg, log),
		digestService:      NewDigestService(stg, log),
	}
}

func (s *service) User() UserService {
	return s.userService
}

func (s *service) Catalog() CatalogService {
	return s.catalogService
}

func (s *service) Order() OrderService {
	return s.orderService
}

func (s *service) Lottery() LotteryService {
	return s.lotteryService
}

func (s *service) CRM() CRMService {
	return s.crmService
}

func (s *service) Cooperation() CooperationService {
	return s.cooperationService
}

func (s *service) Digest() DigestService {
	return s.digestService
}

var (
	ErrLotteryClosed      = errors.New("lottery is closed or full")
	ErrInstallmentDenied  = errors.New("installment is not available for this purchase")
	ErrInstallmentMissing = errors.New("order has no such installment")
)

// wrap classifies a storage error, keeping conflicts and already classified errors as they are.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, storage.ErrPhoneTaken),
		errors.Is(err, storage.ErrNationalIDTaken),
		errors.Is(err, storage.ErrAlreadyParticipant),
		errors.Is(err, ErrLotteryClosed):
		return apperr.E(apperr.KindConflict, op, err)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, ErrInstallmentMissing):
		return apperr.E(apperr.KindNotFound, op, err)
	}
	return apperr.E(apperr.KindPersistence, op, err)
}

func notFound(op string) error {
	return apperr.E(apperr.KindNotFound, op, nil)
}
