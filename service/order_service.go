package service

import (
	"context"
	"time"

	"storebot/pkg/apperr"
	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type PlaceOrder struct {
	UserID       int64
	ProductID    int64
	ReferralCode string
	Installment  bool
	Receipt      models.File
}

type RecordInstallment struct {
	UserID  int64
	OrderID int64
	Slot    int
	Receipt models.File
}

type OrderService interface {
	// LookupReferral returns an active code or nil.
	LookupReferral(ctx context.Context, code string) (*models.ReferralCode, error)
	// Place stores the receipt, the order and their link as one unit.
	Place(ctx context.Context, in PlaceOrder) (*models.Order, error)
	InstallmentOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	// UserOrder returns an order owned by userID or a not-found error.
	UserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	// RecordInstallment links a receipt to an installment order and stamps the slot.
	RecordInstallment(ctx context.Context, in RecordInstallment) (*models.Order, error)
}

type orderService struct {
	stg storage.IStorage
	log logger.ILogger
	now func() time.Time
}

func NewOrderService(stg storage.IStorage, log logger.ILogger) OrderService {
	return &orderService{
		stg: stg,
		log: log,
		now: time.Now,
	}
}

func (s *orderService) LookupReferral(ctx context.Context, code string) (*models.ReferralCode, error) {
	ref, err := s.stg.Referral().GetByCode(ctx, code)
	if err != nil {
		return nil, wrap("order.lookup_referral", err)
	}
	if ref == nil || !ref.IsActive {
		return nil, nil
	}
	return ref, nil
}

func (s *orderService) Place(ctx context.Context, in PlaceOrder) (*models.Order, error) {
	const op = "order.place"

	product, err := s.stg.Product().GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, wrap(op, err)
	}
	if product == nil || !product.IsActive {
		return nil, notFound(op)
	}

	var ref *models.ReferralCode
	if in.ReferralCode != "" {
		if ref, err = s.LookupReferral(ctx, in.ReferralCode); err != nil {
			return nil, err
		}
	}
	if in.Installment && PaymentOfferFor(product.Grade, ref) != OfferChoice {
		return nil, apperr.E(apperr.KindValidation, op, ErrInstallmentDenied)
	}

	now := s.now()
	order := &models.Order{
		UserID:      in.UserID,
		ProductID:   product.ID,
		Status:      models.OrderPending,
		Installment: in.Installment,
		// Referral codes are recorded for attribution only. No discount is applied.
		FinalPrice: product.Price,
	}
	if ref != nil {
		order.SellerID = &ref.OwnerID
		order.ReferralCode = &ref.Code
	}
	if in.Installment {
		// The purchase receipt doubles as proof of the first slot.
		order.SetSlot(1, now)
	}

	var created *models.Order
	err = s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		file, err := tx.File().Create(ctx, &in.Receipt)
		if err != nil {
			return err
		}
		if created, err = tx.Order().Create(ctx, order); err != nil {
			return err
		}
		return tx.Order().AttachReceipt(ctx, created.ID, file.ID)
	})
	if err != nil {
		return nil, wrap(op, err)
	}

	s.log.Info("order placed",
		logger.Int64("order_id", created.ID),
		logger.Int64("user_id", in.UserID),
		logger.String("payment", string(created.PaymentType())),
	)
	return created, nil
}

func (s *orderService) InstallmentOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	installment := true
	orders, err := s.stg.Order().Find(ctx, models.OrderFilter{UserID: userID, Installment: &installment})
	return orders, wrap("order.installment_orders", err)
}

func (s *orderService) UserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	o, err := s.stg.Order().GetByID(ctx, orderID)
	if err != nil {
		return nil, wrap("order.user_order", err)
	}
	if o == nil || o.UserID != userID {
		return nil, notFound("order.user_order")
	}
	return o, nil
}

// RecordInstallment does not require earlier slots to be paid and does not
// refuse a slot that already has a timestamp.
func (s *orderService) RecordInstallment(ctx context.Context, in RecordInstallment) (*models.Order, error) {
	const op = "order.record_installment"
	if in.Slot < 1 || in.Slot > models.InstallmentSlots {
		return nil, apperr.E(apperr.KindValidation, op, ErrInstallmentMissing)
	}

	var out *models.Order
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		o, err := tx.Order().GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if o == nil || o.UserID != in.UserID {
			return storage.ErrNotFound
		}
		if !o.Installment {
			return ErrInstallmentMissing
		}

		file, err := tx.File().Create(ctx, &in.Receipt)
		if err != nil {
			return err
		}
		if err := tx.Order().AttachReceipt(ctx, o.ID, file.ID); err != nil {
			return err
		}
		if err := tx.Order().MarkInstallment(ctx, o.ID, in.Slot, s.now()); err != nil {
			return err
		}
		out, err = tx.Order().GetByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}

	s.log.Info("installment recorded", logger.Int64("order_id", in.OrderID), logger.Int("slot", in.Slot))
	return out, nil
}
