package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository defines the interface for weekly invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.WeeklyInvoice, error)
	ListByWeek(ctx context.Context, weekStart, weekEnd time.Time) ([]models.WeeklyInvoice, error)
	Upsert(ctx context.Context, inv *models.WeeklyInvoice) error
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.WeeklyInvoice, error) {
	var inv models.WeeklyInvoice
	err := r.db.WithContext(ctx).Preload("Client").First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("weekly invoice %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) ListByWeek(ctx context.Context, weekStart, weekEnd time.Time) ([]models.WeeklyInvoice, error) {
	var invoices []models.WeeklyInvoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("week_start = ?::date AND week_end = ?::date", weekStart, weekEnd).
		Joins("JOIN clients ON clients.id = weekly_invoices.client_id").
		Order("clients.name ASC").
		Find(&invoices).Error
	return invoices, err
}

// Upsert writes the recomputed invoice for (client, week) in one
// transaction, locking the existing row. Document numbers are assigned
// here: InvoiceNumber on first insert, ReceiptNumber the first time
// final_payable is positive. An already-set ReceiptNumber is never
// overwritten. AmountPaid and Status are recomputed from the recorded
// payments under the same row lock, so a payment landing mid-recompute is
// never overwritten with a stale total.
func (r *invoiceRepository) Upsert(ctx context.Context, inv *models.WeeklyInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.WeeklyInvoice
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("client_id = ? AND week_start = ?::date AND week_end = ?::date",
				inv.ClientID, inv.WeekStart, inv.WeekEnd).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			number, err := nextSequenceNumber(tx, "weekly_invoices", "invoice_number", "WINV", inv.WeekStart.Year())
			if err != nil {
				return err
			}
			inv.InvoiceNumber = number
			if inv.FinalPayable > 0 {
				receipt, err := nextSequenceNumber(tx, "weekly_invoices", "receipt_number", "WRCP", inv.WeekStart.Year())
				if err != nil {
					return err
				}
				inv.ReceiptNumber = &receipt
			}
			return tx.Create(inv).Error

		case err != nil:
			return err
		}

		existing.TotalCylinders = inv.TotalCylinders
		existing.Subtotal = inv.Subtotal
		existing.Discount = inv.Discount
		existing.TaxAmount = inv.TaxAmount
		existing.TotalPayable = inv.TotalPayable
		existing.PreviousBalance = inv.PreviousBalance
		existing.FinalPayable = inv.FinalPayable

		var paid struct {
			Total float64
		}
		err = tx.Model(&models.WeeklyPayment{}).
			Select("COALESCE(SUM(amount), 0) as total").
			Where("weekly_invoice_id = ?", existing.ID).
			Scan(&paid).Error
		if err != nil {
			return err
		}
		existing.AmountPaid = paid.Total
		existing.Status = existing.ResolveStatus()
		if existing.Status == models.InvoiceStatusUnpaid {
			existing.PaidAt = nil
		}

		if existing.ReceiptNumber == nil && existing.FinalPayable > 0 {
			receipt, err := nextSequenceNumber(tx, "weekly_invoices", "receipt_number", "WRCP", existing.WeekStart.Year())
			if err != nil {
				return err
			}
			existing.ReceiptNumber = &receipt
		}
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*inv = existing
		return nil
	})
}
