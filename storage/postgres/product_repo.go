package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type productRepo struct {
	db  DB
	log logger.ILogger
}

func NewProductRepo(db DB, log logger.ILogger) storage.IProductStorage {
	return &productRepo{db: db, log: log}
}

const productColumns = `id, name, grade, major, description, price, is_active, created_at, updated_at`

func scanProduct(row scanner) (*models.Product, error) {
	var (
		p     models.Product
		grade int
		major *string
	)
	if err := row.Scan(&p.ID, &p.Name, &grade, &major, &p.Description, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Grade = models.Grade(grade)
	if major != nil {
		m := models.Major(*major)
		p.Major = &m
	}
	return &p, nil
}

func majorArg(m *models.Major) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get product", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *productRepo) GetByName(ctx context.Context, name string) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get product by name", logger.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Find(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE grade = $1
			AND ($2::text IS NULL OR major = $2)
			AND (NOT $3 OR is_active)
		ORDER BY id`
	rows, err := r.db.Query(ctx, query, int(filter.Grade), majorArg(filter.Major), filter.ActiveOnly)
	if err != nil {
		r.log.Error("failed to find products", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) Upsert(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (name, grade, major, description, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE
		SET grade = EXCLUDED.grade,
			major = EXCLUDED.major,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING ` + productColumns
	out, err := scanProduct(r.db.QueryRow(ctx, query, p.Name, int(p.Grade), majorArg(p.Major), p.Description, p.Price, p.IsActive))
	if err != nil {
		r.log.Error("failed to upsert product", logger.String("name", p.Name), logger.Error(err))
		return nil, err
	}
	return out, nil
}
