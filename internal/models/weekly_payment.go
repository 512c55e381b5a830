package models

import "time"

// WeeklyPayment is one payment applied to a weekly invoice. Append-only.
type WeeklyPayment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	WeeklyInvoiceID uint      `gorm:"not null;index" json:"weekly_invoice_id"`
	ClientID        uint      `gorm:"not null;index" json:"client_id"`
	Amount          float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate     time.Time `gorm:"type:date;not null" json:"payment_date"`
	Reference       string    `gorm:"uniqueIndex;not null" json:"reference"`
	CreatedBy       *uint     `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for WeeklyPayment
func (WeeklyPayment) TableName() string {
	return "weekly_payments"
}
