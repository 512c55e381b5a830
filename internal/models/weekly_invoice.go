package models

import (
	"time"
)

// Weekly invoice status constants
const (
	InvoiceStatusPaid   = "PAID"
	InvoiceStatusUnpaid = "UNPAID"
)

// WeeklyInvoice is the computed settlement of a client's sales over one
// week window plus the carried-forward prior balance. It is upserted on
// demand and stays consistent under repeated recomputation; ReceiptNumber
// is assigned once and frozen.
type WeeklyInvoice struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	InvoiceNumber   string     `gorm:"uniqueIndex;not null" json:"invoice_number"`
	ClientID        uint       `gorm:"not null;index:idx_weekly_invoices_week,unique" json:"client_id"`
	WeekStart       time.Time  `gorm:"type:date;not null;index:idx_weekly_invoices_week,unique" json:"week_start"`
	WeekEnd         time.Time  `gorm:"type:date;not null;index:idx_weekly_invoices_week,unique" json:"week_end"`
	TotalCylinders  int        `gorm:"default:0" json:"total_cylinders"`
	Subtotal        float64    `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	Discount        float64    `gorm:"type:decimal(12,2);default:0" json:"discount"`
	TaxAmount       float64    `gorm:"type:decimal(12,2);default:0" json:"tax_amount"`
	TotalPayable    float64    `gorm:"type:decimal(12,2);default:0" json:"total_payable"`
	PreviousBalance float64    `gorm:"type:decimal(12,2);default:0" json:"previous_balance"`
	FinalPayable    float64    `gorm:"type:decimal(12,2);default:0" json:"final_payable"`
	AmountPaid      float64    `gorm:"type:decimal(12,2);default:0" json:"amount_paid"`
	Status          string     `gorm:"default:UNPAID;not null" json:"status"`
	ReceiptNumber   *string    `gorm:"uniqueIndex" json:"receipt_number,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedBy       *uint      `json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for WeeklyInvoice
func (WeeklyInvoice) TableName() string {
	return "weekly_invoices"
}

// Remaining returns the outstanding amount on the invoice.
func (w *WeeklyInvoice) Remaining() float64 {
	r := w.FinalPayable - w.AmountPaid
	if r < 0 {
		return 0
	}
	return r
}

// ResolveStatus applies the status rule: PAID iff fully covered and there
// was something to pay.
func (w *WeeklyInvoice) ResolveStatus() string {
	if w.AmountPaid >= w.FinalPayable && w.FinalPayable > 0 {
		return InvoiceStatusPaid
	}
	return InvoiceStatusUnpaid
}

// WeeklyInvoiceResponse is the JSON response format for weekly invoices
type WeeklyInvoiceResponse struct {
	ID              uint      `json:"id"`
	InvoiceNumber   string    `json:"invoice_number"`
	ClientID        uint      `json:"client_id"`
	ClientName      string    `json:"client_name,omitempty"`
	ClientCompany   string    `json:"client_company,omitempty"`
	WeekStart       string    `json:"week_start"`
	WeekEnd         string    `json:"week_end"`
	TotalCylinders  int       `json:"total_cylinders"`
	Subtotal        float64   `json:"subtotal"`
	Discount        float64   `json:"discount"`
	TaxAmount       float64   `json:"tax_amount"`
	TotalPayable    float64   `json:"total_payable"`
	PreviousBalance float64   `json:"previous_balance"`
	FinalPayable    float64   `json:"final_payable"`
	AmountPaid      float64   `json:"amount_paid"`
	Remaining       float64   `json:"remaining"`
	Status          string    `json:"status"`
	ReceiptNumber   *string   `json:"receipt_number,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToResponse converts WeeklyInvoice to WeeklyInvoiceResponse
func (w *WeeklyInvoice) ToResponse() WeeklyInvoiceResponse {
	resp := WeeklyInvoiceResponse{
		ID:              w.ID,
		InvoiceNumber:   w.InvoiceNumber,
		ClientID:        w.ClientID,
		WeekStart:       w.WeekStart.Format("2006-01-02"),
		WeekEnd:         w.WeekEnd.Format("2006-01-02"),
		TotalCylinders:  w.TotalCylinders,
		Subtotal:        w.Subtotal,
		Discount:        w.Discount,
		TaxAmount:       w.TaxAmount,
		TotalPayable:    w.TotalPayable,
		PreviousBalance: w.PreviousBalance,
		FinalPayable:    w.FinalPayable,
		AmountPaid:      w.AmountPaid,
		Remaining:       w.Remaining(),
		Status:          w.Status,
		ReceiptNumber:   w.ReceiptNumber,
		UpdatedAt:       w.UpdatedAt,
	}
	if w.Client.ID != 0 {
		resp.ClientName = w.Client.Name
		resp.ClientCompany = w.Client.Company
	}
	return resp
}
