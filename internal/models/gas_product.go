package models

import "time"

// GasProduct is a product variant (gas_type, sub_type, capacity) from the
// catalog. Read-only reference data for this service.
type GasProduct struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GasType     string    `gorm:"not null" json:"gas_type"`
	SubType     string    `json:"sub_type"`
	Capacity    string    `gorm:"not null" json:"capacity"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);default:0" json:"unit_price"`
	Description string    `json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GasProduct
func (GasProduct) TableName() string {
	return "gas_products"
}
