package repository

import (
	"context"
	"time"

	"github.com/rajputgas/agency-api/internal/models"

	"gorm.io/gorm"
)

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	FindByClient(ctx context.Context, clientID uint) ([]models.Receipt, error)
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// Create assigns the next receipt number and inserts the receipt in one
// transaction.
func (r *receiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextSequenceNumber(tx, "receipts", "receipt_number", "RCP", time.Now().Year())
		if err != nil {
			return err
		}
		receipt.ReceiptNumber = number
		return tx.Create(receipt).Error
	})
}

func (r *receiptRepository) FindByClient(ctx context.Context, clientID uint) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").
		Find(&receipts).Error
	return receipts, err
}
