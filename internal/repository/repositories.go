package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Client   ClientRepository
	Product  ProductRepository
	Sale     SaleRepository
	GatePass GatePassRepository
	Return   ReturnRepository
	Invoice  InvoiceRepository
	Payment  PaymentRepository
	Receipt  ReceiptRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Client:   NewClientRepository(db),
		Product:  NewProductRepository(db),
		Sale:     NewSaleRepository(db),
		GatePass: NewGatePassRepository(db),
		Return:   NewReturnRepository(db),
		Invoice:  NewInvoiceRepository(db),
		Payment:  NewPaymentRepository(db),
		Receipt:  NewReceiptRepository(db),
	}
}

// nextSequenceNumber produces year-scoped document numbers like
// "GP-2026-000042" by counting the rows already numbered with the same
// prefix and year. Counting the numbered column keeps sequences that are
// assigned on update (weekly receipt numbers) in step with sequences
// assigned on insert, and restarts every sequence each year. Callers must
// run it inside the transaction that writes the numbered row.
func nextSequenceNumber(tx *gorm.DB, table, column, prefix string, year int) (string, error) {
	var count int64
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	if err := tx.Table(table).Where(column+" LIKE ?", pattern).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, count+1), nil
}
