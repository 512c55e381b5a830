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

// paymentEpsilon tolerates decimal rounding when comparing a payment
// against the invoice remainder.
const paymentEpsilon = 1e-6

// PaymentRepository defines the interface for weekly payment data access
type PaymentRepository interface {
	Record(ctx context.Context, payment *models.WeeklyPayment) ([]models.SaleAllocation, error)
	FindByInvoice(ctx context.Context, invoiceID uint) ([]models.WeeklyPayment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Record applies a payment to its invoice in one transaction: the invoice
// row is locked, the amount is re-checked against the remainder, the
// payment is inserted, invoice totals and status advance, and the amount
// is fanned out across the client's outstanding sales oldest first. The
// allocation steps are returned for receipt issuance.
func (r *paymentRepository) Record(ctx context.Context, payment *models.WeeklyPayment) ([]models.SaleAllocation, error) {
	var steps []models.SaleAllocation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.WeeklyInvoice
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inv, payment.WeeklyInvoiceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("weekly invoice %d: %w", payment.WeeklyInvoiceID, apperrors.ErrNotFound)
		}
		if err != nil {
			return err
		}

		if inv.ClientID != payment.ClientID {
			return fmt.Errorf("invoice %d does not belong to client %d: %w",
				inv.ID, payment.ClientID, apperrors.ErrValidation)
		}

		remaining := inv.Remaining()
		if payment.Amount > remaining+paymentEpsilon {
			return fmt.Errorf("payment %.2f exceeds remaining %.2f on invoice %s: %w",
				payment.Amount, remaining, inv.InvoiceNumber, apperrors.ErrOverpayment)
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		inv.AmountPaid += payment.Amount
		wasUnpaid := inv.Status == models.InvoiceStatusUnpaid
		inv.Status = inv.ResolveStatus()
		if wasUnpaid && inv.Status == models.InvoiceStatusPaid {
			now := time.Now()
			inv.PaidAt = &now
		}
		if err := tx.Save(&inv).Error; err != nil {
			return err
		}

		var sales []models.Sale
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("client_id = ? AND total_amount - amount_paid > 0", payment.ClientID).
			Order("created_at ASC, id ASC").
			Find(&sales).Error
		if err != nil {
			return err
		}

		steps = models.AllocateFIFO(sales, payment.Amount)
		for _, step := range steps {
			if step.Balance < -paymentEpsilon {
				return fmt.Errorf("allocation drove sale %d balance to %.2f: %w",
					step.SaleID, step.Balance, apperrors.ErrInvariant)
			}
			err := tx.Model(&models.Sale{}).
				Where("id = ?", step.SaleID).
				Updates(map[string]interface{}{
					"amount_paid": step.AmountPaid,
					"balance":     step.Balance,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *paymentRepository) FindByInvoice(ctx context.Context, invoiceID uint) ([]models.WeeklyPayment, error) {
	var payments []models.WeeklyPayment
	err := r.db.WithContext(ctx).
		Where("weekly_invoice_id = ?", invoiceID).
		Order("created_at ASC, id ASC").
		Find(&payments).Error
	return payments, err
}
