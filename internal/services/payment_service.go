package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/jobs"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
	"github.com/rajputgas/agency-api/pkg/logger"
)

// paymentEpsilon tolerates decimal rounding when comparing a payment
// against the invoice remainder.
const paymentEpsilon = 1e-6

// PaymentService records weekly payments and fans them out across the
// client's outstanding sales.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	receiptSvc  *ReceiptService
	auditSvc    *AuditService
	worker      *jobs.Worker
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	receiptSvc *ReceiptService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		receiptSvc:  receiptSvc,
		auditSvc:    auditSvc,
		worker:      worker,
	}
}

// PaymentResult is what a recorded payment produced: the payment row, the
// invoice after the update, and one allocation step per sale touched.
type PaymentResult struct {
	Payment     *models.WeeklyPayment   `json:"payment"`
	Invoice     *models.WeeklyInvoice   `json:"invoice"`
	Allocations []models.SaleAllocation `json:"allocations"`
	Receipts    []models.Receipt        `json:"receipts"`
}

// RecordWeeklyPayment applies a payment to a weekly invoice. The amount must
// be non-negative and no more than the invoice remainder; paying the exact
// remainder settles the invoice. The payment is allocated FIFO across the
// client's outstanding sales, one receipt snapshot per allocation step.
func (s *PaymentService) RecordWeeklyPayment(ctx context.Context, invoiceID uint, amount float64, date time.Time, actorID uint) (*PaymentResult, error) {
	if amount < 0 {
		return nil, fmt.Errorf("payment amount cannot be negative, got %.2f: %w",
			amount, apperrors.ErrValidation)
	}

	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	// Precondition; the repository re-checks under the invoice row lock.
	if amount > inv.Remaining()+paymentEpsilon {
		return nil, fmt.Errorf("payment %.2f exceeds remaining %.2f on invoice %s: %w",
			amount, inv.Remaining(), inv.InvoiceNumber, apperrors.ErrOverpayment)
	}

	payment := &models.WeeklyPayment{
		WeeklyInvoiceID: inv.ID,
		ClientID:        inv.ClientID,
		Amount:          amount,
		PaymentDate:     date,
		Reference:       uuid.NewString(),
		CreatedBy:       &actorID,
	}

	// The repository re-checks the remainder under the invoice row lock.
	allocations, err := s.paymentRepo.Record(ctx, payment)
	if err != nil {
		return nil, err
	}

	receipts := make([]models.Receipt, 0, len(allocations))
	for _, step := range allocations {
		receipt, err := s.receiptSvc.Issue(ctx, step, inv.ClientID, actorID)
		if err != nil {
			logger.Error(fmt.Sprintf("[Payment] issue receipt for sale %d: %v", step.SaleID, err))
			continue
		}
		receipts = append(receipts, *receipt)
	}

	_ = s.auditSvc.Log(ctx, &actorID, "RECORD_PAYMENT", "weekly_payment", payment.ID,
		fmt.Sprintf("payment %.2f against invoice %s (ref %s)", amount, inv.InvoiceNumber, payment.Reference))

	clientID := inv.ClientID
	s.worker.EnqueueAsync(func(jobCtx context.Context) error {
		return s.clientRepo.RefreshRollup(jobCtx, clientID)
	})

	updated, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		Payment:     payment,
		Invoice:     updated,
		Allocations: allocations,
		Receipts:    receipts,
	}, nil
}

// ListForInvoice returns the payments recorded against one invoice.
func (s *PaymentService) ListForInvoice(ctx context.Context, invoiceID uint) ([]models.WeeklyPayment, error) {
	return s.paymentRepo.FindByInvoice(ctx, invoiceID)
}
