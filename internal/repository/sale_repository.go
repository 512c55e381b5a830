package repository

import (
	"context"
	"time"

	"github.com/rajputgas/agency-api/internal/models"

	"gorm.io/gorm"
)

// SaleRepository reads sales owned by the sales subsystem. Payment
// allocation is the only writer, and it only touches amount_paid/balance.
type SaleRepository interface {
	FindInWindow(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error)
	SumBalanceBefore(ctx context.Context, clientID uint, before time.Time) (float64, error)
}

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// FindInWindow returns the client's sales dated within [start, end]
// inclusive, line items preloaded for invoice aggregation.
func (r *saleRepository) FindInWindow(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("client_id = ? AND created_at::date BETWEEN ?::date AND ?::date", clientID, start, end).
		Order("created_at ASC, id ASC").
		Find(&sales).Error
	return sales, err
}

// SumBalanceBefore totals the unpaid balances of sales dated strictly
// before the given day. Feeds the carried-forward previous balance.
func (r *saleRepository) SumBalanceBefore(ctx context.Context, clientID uint, before time.Time) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COALESCE(SUM(balance), 0) as total").
		Where("client_id = ? AND created_at::date < ?::date", clientID, before).
		Scan(&result).Error
	return result.Total, err
}
