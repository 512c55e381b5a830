package models

import "time"

// Sale is owned by the sales subsystem. This service reads sales for
// billing aggregation and writes only AmountPaid/Balance during payment
// allocation; it never creates or deletes them.
type Sale struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClientID     uint      `gorm:"not null;index" json:"client_id"`
	GasProductID uint      `gorm:"not null" json:"gas_product_id"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	UnitPrice    float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal     float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount    float64   `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalAmount  float64   `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	AmountPaid   float64   `gorm:"type:decimal(12,2);default:0" json:"amount_paid"`
	Balance      float64   `gorm:"type:decimal(12,2);default:0" json:"balance"`
	CreatedBy    uint      `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	LineItems []SaleLineItem `gorm:"foreignKey:SaleID" json:"line_items,omitempty"`
}

// TableName specifies the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// Remaining returns the unpaid portion of the sale.
func (s *Sale) Remaining() float64 {
	return s.TotalAmount - s.AmountPaid
}

// SaleLineItem is one product line on a sale.
type SaleLineItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SaleID       uint    `gorm:"not null;index" json:"sale_id"`
	GasProductID uint    `gorm:"not null" json:"gas_product_id"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	UnitPrice    float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal     float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount    float64 `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalAmount  float64 `gorm:"type:decimal(12,2);not null" json:"total_amount"`
}

// TableName specifies the table name for SaleLineItem
func (SaleLineItem) TableName() string {
	return "sale_line_items"
}
