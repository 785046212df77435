package service

import (
	"context"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type CatalogService interface {
	// Products lists active products of grade. major is ignored below the high school grades.
	Products(ctx context.Context, grade models.Grade, major *models.Major) ([]*models.Product, error)
	// Product returns an active product or a not-found error.
	Product(ctx context.Context, id int64) (*models.Product, error)
	ProductByName(ctx context.Context, name string) (*models.Product, error)
}

type catalogService struct {
	stg storage.IProductStorage
	log logger.ILogger
}

func NewCatalogService(stg storage.IStorage, log logger.ILogger) CatalogService {
	return &catalogService{
		stg: stg.Product(),
		log: log,
	}
}

func (s *catalogService) Products(ctx context.Context, grade models.Grade, major *models.Major) ([]*models.Product, error) {
	if !grade.HighSchool() {
		major = nil
	}
	products, err := s.stg.Find(ctx, models.ProductFilter{Grade: grade, Major: major, ActiveOnly: true})
	return products, wrap("catalog.products", err)
}

func (s *catalogService) Product(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("catalog.product", err)
	}
	if p == nil || !p.IsActive {
		return nil, notFound("catalog.product")
	}
	return p, nil
}

func (s *catalogService) ProductByName(ctx context.Context, name string) (*models.Product, error) {
	p, err := s.stg.GetByName(ctx, name)
	if err != nil {
		return nil, wrap("catalog.product_by_name", err)
	}
	if p == nil || !p.IsActive {
		return nil, notFound("catalog.product_by_name")
	}
	return p, nil
}
