package models

import "time"

// Receipt is the persisted snapshot the receipt issuer produces for one
// payment allocation step against a sale.
type Receipt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReceiptNumber string    `gorm:"uniqueIndex;not null" json:"receipt_number"`
	SaleID        uint      `gorm:"not null;index" json:"sale_id"`
	ClientID      uint      `gorm:"not null;index" json:"client_id"`
	TotalAmount   float64   `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	AmountPaid    float64   `gorm:"type:decimal(12,2);default:0" json:"amount_paid"`
	Balance       float64   `gorm:"type:decimal(12,2);default:0" json:"balance"`
	CreatedBy     uint      `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for Receipt
func (Receipt) TableName() string {
	return "receipts"
}
