package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rajputgas/agency-api/internal/config"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
)

// WeekWindow is one billing week, dates inclusive.
type WeekWindow struct {
	Start time.Time `json:"week_start"`
	End   time.Time `json:"week_end"`
}

// WeekWindowFor computes the billing week containing day. The window starts
// on the most recent startDay on or before day and ends on the following
// endDay. With the default Saturday start, a Friday end gives a 7-day week
// and a Thursday end a 6-day week.
func WeekWindowFor(day time.Time, startDay, endDay time.Weekday) WeekWindow {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	back := (int(date.Weekday()) - int(startDay) + 7) % 7
	start := date.AddDate(0, 0, -back)
	span := (int(endDay) - int(startDay) + 7) % 7
	return WeekWindow{Start: start, End: start.AddDate(0, 0, span)}
}

// BillingService computes weekly invoices as a settlement view over the
// client's sales.
type BillingService struct {
	invoiceRepo repository.InvoiceRepository
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	cfg         *config.Config
	auditSvc    *AuditService
}

// NewBillingService creates a new billing service
func NewBillingService(
	invoiceRepo repository.InvoiceRepository,
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	cfg *config.Config,
	auditSvc *AuditService,
) *BillingService {
	return &BillingService{
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		cfg:         cfg,
		auditSvc:    auditSvc,
	}
}

// DefaultWindow returns the configured billing week containing day.
func (s *BillingService) DefaultWindow(day time.Time) WeekWindow {
	return WeekWindowFor(day, s.cfg.WeekStartDay, s.cfg.WeekEndDay)
}

// WindowEndingOn returns the billing week containing day with an explicit
// end weekday, for callers that settle a day early.
func (s *BillingService) WindowEndingOn(day time.Time, endDay time.Weekday) WeekWindow {
	return WeekWindowFor(day, s.cfg.WeekStartDay, endDay)
}

// UpsertWeeklyInvoice recomputes the client's invoice for the window from
// its sales and recorded payments. Repeated calls with no intervening sales
// or payments produce identical fields; a receipt number, once assigned,
// never changes.
func (s *BillingService) UpsertWeeklyInvoice(ctx context.Context, clientID uint, window WeekWindow, actorID uint) (*models.WeeklyInvoice, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.FindInWindow(ctx, clientID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	var (
		totalCylinders int
		grossTotal     float64
		subtotal       float64
		taxAmount      float64
		totalPayable   float64
	)
	for _, sale := range sales {
		if len(sale.LineItems) > 0 {
			for _, li := range sale.LineItems {
				totalCylinders += li.Quantity
				grossTotal += float64(li.Quantity) * li.UnitPrice
				subtotal += li.Subtotal
				taxAmount += li.TaxAmount
				totalPayable += li.TotalAmount
			}
			continue
		}
		totalCylinders += sale.Quantity
		grossTotal += float64(sale.Quantity) * sale.UnitPrice
		subtotal += sale.Subtotal
		taxAmount += sale.TaxAmount
		totalPayable += sale.TotalAmount
	}

	discount := grossTotal - subtotal
	if discount < 0 {
		discount = 0
	}

	priorBalances, err := s.saleRepo.SumBalanceBefore(ctx, clientID, window.Start)
	if err != nil {
		return nil, err
	}
	previousBalance := priorBalances + client.InitialPreviousBalance
	finalPayable := previousBalance + totalPayable

	// A brand-new invoice has no payments yet; on update the repository
	// recomputes AmountPaid and Status from the recorded payments under
	// the invoice row lock.
	inv := &models.WeeklyInvoice{
		ClientID:        clientID,
		WeekStart:       window.Start,
		WeekEnd:         window.End,
		TotalCylinders:  totalCylinders,
		Subtotal:        subtotal,
		Discount:        discount,
		TaxAmount:       taxAmount,
		TotalPayable:    totalPayable,
		PreviousBalance: previousBalance,
		FinalPayable:    finalPayable,
		Status:          models.InvoiceStatusUnpaid,
		CreatedBy:       &actorID,
	}

	if err := s.invoiceRepo.Upsert(ctx, inv); err != nil {
		return nil, err
	}

	_ = s.auditSvc.Log(ctx, &actorID, "UPSERT_WEEKLY_INVOICE", "weekly_invoice", inv.ID,
		fmt.Sprintf("invoice %s for client %d week %s..%s payable %.2f",
			inv.InvoiceNumber, clientID,
			window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"),
			inv.FinalPayable))

	return inv, nil
}

// UpsertAllWeeklyInvoices recomputes invoices for every client in the
// window. Per-client failures are collected, not fatal.
func (s *BillingService) UpsertAllWeeklyInvoices(ctx context.Context, window WeekWindow, actorID uint) ([]models.WeeklyInvoice, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.WeeklyInvoice
	var firstErr error
	for _, c := range clients {
		inv, err := s.UpsertWeeklyInvoice(ctx, c.ID, window, actorID)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("client %d: %w", c.ID, err)
			}
			continue
		}
		out = append(out, *inv)
	}
	return out, firstErr
}

// GetWeeklyInvoices lists the invoices already computed for the window.
// Read-only: listing never recomputes.
func (s *BillingService) GetWeeklyInvoices(ctx context.Context, window WeekWindow) ([]models.WeeklyInvoice, error) {
	return s.invoiceRepo.ListByWeek(ctx, window.Start, window.End)
}

// GetInvoice fetches one invoice
func (s *BillingService) GetInvoice(ctx context.Context, id uint) (*models.WeeklyInvoice, error) {
	return s.invoiceRepo.FindByID(ctx, id)
}
