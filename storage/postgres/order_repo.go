package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type orderRepo struct {
	db  DB
	log logger.ILogger
}

func NewOrderRepo(db DB, log logger.ILogger) storage.IOrderStorage {
	return &orderRepo{db: db, log: log}
}

const orderColumns = `o.id, o.user_id, o.product_id, o.seller_id, o.status, o.installment, o.final_price,
	o.first_installment, o.second_installment, o.third_installment, o.referral_code, o.created_at, o.updated_at, p.name`

func scanOrder(row scanner) (*models.Order, error) {
	var (
		o      models.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.SellerID, &status, &o.Installment, &o.FinalPrice,
		&o.FirstInstallment, &o.SecondInstallment, &o.ThirdInstallment, &o.ReferralCode, &o.CreatedAt, &o.UpdatedAt, &o.ProductName,
	)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	return &o, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := `
		WITH o AS (
			INSERT INTO orders (user_id, product_id, seller_id, status, installment, final_price, first_installment, referral_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + orderColumns + ` FROM o JOIN products p ON p.id = o.product_id`
	out, err := scanOrder(r.db.QueryRow(ctx, query,
		order.UserID, order.ProductID, order.SellerID, string(order.Status), order.Installment, order.FinalPrice, order.FirstInstallment, order.ReferralCode,
	))
	if err != nil {
		r.log.Error("failed to create order", logger.Int64("user_id", order.UserID), logger.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o JOIN products p ON p.id = o.product_id WHERE o.id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get order", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) Find(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders o JOIN products p ON p.id = o.product_id
		WHERE o.user_id = $1 AND ($2::boolean IS NULL OR o.installment = $2)
		ORDER BY o.created_at DESC`
	rows, err := r.db.Query(ctx, query, filter.UserID, filter.Installment)
	if err != nil {
		r.log.Error("failed to find orders", logger.Int64("user_id", filter.UserID), logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepo) AttachReceipt(ctx context.Context, orderID, fileID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO order_files (order_id, file_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, orderID, fileID)
	if err != nil {
		r.log.Error("failed to attach receipt", logger.Int64("order_id", orderID), logger.Error(err))
	}
	return err
}

func (r *orderRepo) ReceiptIDs(ctx context.Context, orderID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT file_id FROM order_files WHERE order_id = $1 ORDER BY file_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var slotColumns = map[int]string{
	1: "first_installment",
	2: "second_installment",
	3: "third_installment",
}

func (r *orderRepo) MarkInstallment(ctx context.Context, orderID int64, slot int, at time.Time) error {
	column, ok := slotColumns[slot]
	if !ok {
		return fmt.Errorf("installment slot %d out of range", slot)
	}
	query := fmt.Sprintf(`UPDATE orders SET %s = $1, updated_at = NOW() WHERE id = $2 AND installment`, column)
	tag, err := r.db.Exec(ctx, query, at, orderID)
	if err != nil {
		r.log.Error("failed to mark installment", logger.Int64("order_id", orderID), logger.Int("slot", slot), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, status models.OrderStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM orders WHERE status = $1", string(status)).Scan(&count)
	return count, err
}

func (r *orderRepo) CountUnpaidSlots(ctx context.Context) (int, error) {
	query := `
		SELECT COALESCE(SUM(
			(first_installment IS NULL)::int + (second_installment IS NULL)::int + (third_installment IS NULL)::int
		), 0)
		FROM orders WHERE installment AND status <> 'rejected'`
	var count int
	err := r.db.QueryRow(ctx, query).Scan(&count)
	return count, err
}
