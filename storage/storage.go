package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storebot/pkg/models"
)

// Getters return (nil, nil) when the row does not exist.
type IStorage interface {
	User() IUserStorage
	Product() IProductStorage
	Referral() IReferralStorage
	Order() IOrderStorage
	File() IFileStorage
	Lottery() ILotteryStorage
	CRM() ICRMStorage
	Cooperation() ICooperationStorage

	// WithTx runs fn against a storage bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx IStorage) error) error
	Ping(ctx context.Context) error
	Close()
	GetPool() *pgxpool.Pool
}

type IUserStorage interface {
	GetOrCreate(ctx context.Context, teleID int64, username string) (*models.User, error)
	Get(ctx context.Context, teleID int64) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
	// Approve upserts the user by telegram id with every registration field and approved=true.
	Approve(ctx context.Context, reg models.Registration) (*models.User, error)
	CountApproved(ctx context.Context) (int, error)
}

type IProductStorage interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	Find(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	Upsert(ctx context.Context, p *models.Product) (*models.Product, error)
}

type IReferralStorage interface {
	GetByCode(ctx context.Context, code string) (*models.ReferralCode, error)
	GetSeller(ctx context.Context, id int64) (*models.Seller, error)
	UpsertSeller(ctx context.Context, s *models.Seller) (*models.Seller, error)
	UpsertCode(ctx context.Context, c *models.ReferralCode) (*models.ReferralCode, error)
}

type IOrderStorage interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	Find(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	AttachReceipt(ctx context.Context, orderID, fileID int64) error
	ReceiptIDs(ctx context.Context, orderID int64) ([]int64, error)
	// MarkInstallment stamps slot (1..3) of an installment order with at.
	MarkInstallment(ctx context.Context, orderID int64, slot int, at time.Time) error
	CountByStatus(ctx context.Context, status models.OrderStatus) (int, error)
	CountUnpaidSlots(ctx context.Context) (int, error)
}

type IFileStorage interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id int64) (*models.File, error)
}

type ILotteryStorage interface {
	GetByID(ctx context.Context, id int64) (*models.Lottery, error)
	GetByName(ctx context.Context, name string) (*models.Lottery, error)
	GetActive(ctx context.Context) ([]*models.Lottery, error)
	Upsert(ctx context.Context, l *models.Lottery) (*models.Lottery, error)
	IsParticipant(ctx context.Context, teleID, lotteryID int64) (bool, error)
	CountParticipants(ctx context.Context, lotteryID int64) (int, error)
	AddParticipant(ctx context.Context, p *models.LotteryParticipant) (*models.LotteryParticipant, error)
}

type ICRMStorage interface {
	// Upsert creates a request for phone or resets an existing one to
	// called=false, notes=NULL, priority=1. created reports which happened.
	Upsert(ctx context.Context, phone string) (req *models.CRMRequest, created bool, err error)
	CountUncalled(ctx context.Context) (int, error)
}

type ICooperationStorage interface {
	// Upsert stores the application by telegram id and resets its status to pending.
	Upsert(ctx context.Context, c *models.Cooperation) (coop *models.Cooperation, created bool, err error)
	CountByStatus(ctx context.Context, status models.CooperationStatus) (int, error)
}
