package repository

import (
	"context"

	"github.com/rajputgas/agency-api/internal/models"

	"gorm.io/gorm"
)

// ProductRepository gives read-only access to the gas product catalog.
type ProductRepository interface {
	FindAllActive(ctx context.Context) ([]models.GasProduct, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindAllActive(ctx context.Context) ([]models.GasProduct, error) {
	var products []models.GasProduct
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("gas_type, sub_type, capacity").
		Find(&products).Error
	return products, err
}
