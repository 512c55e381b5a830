package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rajputgas/agency-api/internal/config"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekWindowFor_SaturdayToFriday(t *testing.T) {
	// Wednesday 2026-01-07 falls in the week Sat 2026-01-03 .. Fri 2026-01-09.
	day := time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)
	w := WeekWindowFor(day, time.Saturday, time.Friday)
	assert.Equal(t, "2026-01-03", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-09", w.End.Format("2006-01-02"))
}

func TestWeekWindowFor_SaturdayToThursday(t *testing.T) {
	day := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	w := WeekWindowFor(day, time.Saturday, time.Thursday)
	assert.Equal(t, "2026-01-03", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-08", w.End.Format("2006-01-02"))
}

func TestWeekWindowFor_OnStartDay(t *testing.T) {
	// A Saturday starts its own week.
	day := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)
	w := WeekWindowFor(day, time.Saturday, time.Friday)
	assert.Equal(t, "2026-01-03", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-09", w.End.Format("2006-01-02"))
}

func TestWeekWindowFor_OnEndDay(t *testing.T) {
	// A Friday still belongs to the week that started the previous Saturday.
	day := time.Date(2026, 1, 9, 23, 0, 0, 0, time.UTC)
	w := WeekWindowFor(day, time.Saturday, time.Friday)
	assert.Equal(t, "2026-01-03", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-09", w.End.Format("2006-01-02"))
}

type mockClientRepo struct {
	repository.ClientRepository
	mockFindByID      func(ctx context.Context, id uint) (*models.Client, error)
	mockFindAll       func(ctx context.Context) ([]models.Client, error)
	mockRefreshRollup func(ctx context.Context, clientID uint) error
}

func (m *mockClientRepo) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockClientRepo) FindAll(ctx context.Context) ([]models.Client, error) {
	return m.mockFindAll(ctx)
}

func (m *mockClientRepo) RefreshRollup(ctx context.Context, clientID uint) error {
	if m.mockRefreshRollup != nil {
		return m.mockRefreshRollup(ctx, clientID)
	}
	return nil
}

type mockSaleRepo struct {
	repository.SaleRepository
	mockFindInWindow     func(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error)
	mockSumBalanceBefore func(ctx context.Context, clientID uint, before time.Time) (float64, error)
}

func (m *mockSaleRepo) FindInWindow(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error) {
	return m.mockFindInWindow(ctx, clientID, start, end)
}

func (m *mockSaleRepo) SumBalanceBefore(ctx context.Context, clientID uint, before time.Time) (float64, error) {
	return m.mockSumBalanceBefore(ctx, clientID, before)
}

type mockPaymentRepo struct {
	repository.PaymentRepository
	mockRecord func(ctx context.Context, payment *models.WeeklyPayment) ([]models.SaleAllocation, error)
}

func (m *mockPaymentRepo) Record(ctx context.Context, payment *models.WeeklyPayment) ([]models.SaleAllocation, error) {
	return m.mockRecord(ctx, payment)
}

// fakeInvoiceRepo keeps invoices in memory and honors the upsert contract:
// invoice number on insert, receipt number assigned once final_payable
// turns positive and then frozen, amount_paid and status recomputed from
// the recorded payments on every upsert.
type fakeInvoiceRepo struct {
	repository.InvoiceRepository
	invoices   []*models.WeeklyInvoice
	payments   map[uint]float64
	receiptSeq int
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id uint) (*models.WeeklyInvoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("weekly invoice %d not found", id)
}

func (f *fakeInvoiceRepo) nextReceiptNumber(year int) *string {
	f.receiptSeq++
	n := fmt.Sprintf("WRCP-%d-%06d", year, f.receiptSeq)
	return &n
}

func (f *fakeInvoiceRepo) Upsert(ctx context.Context, inv *models.WeeklyInvoice) error {
	for _, existing := range f.invoices {
		if existing.ClientID != inv.ClientID ||
			!existing.WeekStart.Equal(inv.WeekStart) || !existing.WeekEnd.Equal(inv.WeekEnd) {
			continue
		}
		existing.TotalCylinders = inv.TotalCylinders
		existing.Subtotal = inv.Subtotal
		existing.Discount = inv.Discount
		existing.TaxAmount = inv.TaxAmount
		existing.TotalPayable = inv.TotalPayable
		existing.PreviousBalance = inv.PreviousBalance
		existing.FinalPayable = inv.FinalPayable
		existing.AmountPaid = f.payments[existing.ID]
		existing.Status = existing.ResolveStatus()
		if existing.ReceiptNumber == nil && existing.FinalPayable > 0 {
			existing.ReceiptNumber = f.nextReceiptNumber(existing.WeekStart.Year())
		}
		*inv = *existing
		return nil
	}

	cp := *inv
	cp.ID = uint(len(f.invoices) + 1)
	cp.InvoiceNumber = fmt.Sprintf("WINV-%d-%06d", inv.WeekStart.Year(), len(f.invoices)+1)
	if cp.FinalPayable > 0 {
		cp.ReceiptNumber = f.nextReceiptNumber(inv.WeekStart.Year())
	}
	f.invoices = append(f.invoices, &cp)
	*inv = cp
	return nil
}

func testBillingService(invoiceRepo repository.InvoiceRepository, saleRepo repository.SaleRepository, clientRepo repository.ClientRepository) *BillingService {
	cfg := &config.Config{WeekStartDay: time.Saturday, WeekEndDay: time.Friday}
	return NewBillingService(invoiceRepo, saleRepo, clientRepo, cfg, NewAuditService(nil))
}

func TestUpsertWeeklyInvoice_ComputesAndStaysIdempotent(t *testing.T) {
	window := WeekWindowFor(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), time.Saturday, time.Friday)

	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Client, error) {
			return &models.Client{ID: id, Name: "Khan Traders", InitialPreviousBalance: 123.45}, nil
		},
	}
	saleRepo := &mockSaleRepo{
		mockFindInWindow: func(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error) {
			return []models.Sale{
				{
					ID: 1, ClientID: clientID,
					LineItems: []models.SaleLineItem{
						{Quantity: 4, UnitPrice: 300, Subtotal: 1100, TaxAmount: 110, TotalAmount: 1210},
					},
				},
				// Header-only sale, no line items.
				{ID: 2, ClientID: clientID, Quantity: 2, UnitPrice: 500, Subtotal: 1000, TaxAmount: 100, TotalAmount: 1100},
			}, nil
		},
		mockSumBalanceBefore: func(ctx context.Context, clientID uint, before time.Time) (float64, error) {
			return 50, nil
		},
	}
	invoiceRepo := &fakeInvoiceRepo{}
	svc := testBillingService(invoiceRepo, saleRepo, clientRepo)

	first, err := svc.UpsertWeeklyInvoice(context.Background(), 7, window, 1)
	require.NoError(t, err)

	assert.Equal(t, 6, first.TotalCylinders)
	assert.Equal(t, 2100.0, first.Subtotal)
	// gross = 4*300 + 2*500 = 2200; discount = 2200 - 2100
	assert.Equal(t, 100.0, first.Discount)
	assert.Equal(t, 210.0, first.TaxAmount)
	assert.Equal(t, 2310.0, first.TotalPayable)
	assert.InDelta(t, 173.45, first.PreviousBalance, 1e-9)
	assert.InDelta(t, 2483.45, first.FinalPayable, 1e-9)
	assert.Equal(t, models.InvoiceStatusUnpaid, first.Status)
	require.NotNil(t, first.ReceiptNumber)

	second, err := svc.UpsertWeeklyInvoice(context.Background(), 7, window, 1)
	require.NoError(t, err)

	assert.Equal(t, first.TotalCylinders, second.TotalCylinders)
	assert.Equal(t, first.Subtotal, second.Subtotal)
	assert.Equal(t, first.Discount, second.Discount)
	assert.Equal(t, first.FinalPayable, second.FinalPayable)
	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	require.NotNil(t, second.ReceiptNumber)
	assert.Equal(t, *first.ReceiptNumber, *second.ReceiptNumber)
}

func TestUpsertWeeklyInvoice_NoSalesNoReceiptNumber(t *testing.T) {
	window := WeekWindowFor(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), time.Saturday, time.Friday)

	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Client, error) {
			return &models.Client{ID: id, Name: "Fresh Client"}, nil
		},
	}
	saleRepo := &mockSaleRepo{
		mockFindInWindow: func(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error) {
			return nil, nil
		},
		mockSumBalanceBefore: func(ctx context.Context, clientID uint, before time.Time) (float64, error) {
			return 0, nil
		},
	}
	invoiceRepo := &fakeInvoiceRepo{}
	svc := testBillingService(invoiceRepo, saleRepo, clientRepo)

	inv, err := svc.UpsertWeeklyInvoice(context.Background(), 3, window, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, inv.FinalPayable)
	assert.Equal(t, models.InvoiceStatusUnpaid, inv.Status)
	assert.Nil(t, inv.ReceiptNumber)
}

// Two invoices created with nothing payable must still get distinct
// receipt numbers when later recomputes turn their totals positive.
func TestUpsertWeeklyInvoice_DeferredReceiptNumbersStayDistinct(t *testing.T) {
	window := WeekWindowFor(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), time.Saturday, time.Friday)

	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Client, error) {
			return &models.Client{ID: id, Name: fmt.Sprintf("Client %d", id)}, nil
		},
	}
	salesByClient := map[uint][]models.Sale{}
	saleRepo := &mockSaleRepo{
		mockFindInWindow: func(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error) {
			return salesByClient[clientID], nil
		},
		mockSumBalanceBefore: func(ctx context.Context, clientID uint, before time.Time) (float64, error) {
			return 0, nil
		},
	}
	invoiceRepo := &fakeInvoiceRepo{}
	svc := testBillingService(invoiceRepo, saleRepo, clientRepo)

	// Both clients start the week with no sales: no receipt numbers yet.
	for _, clientID := range []uint{1, 2} {
		inv, err := svc.UpsertWeeklyInvoice(context.Background(), clientID, window, 1)
		require.NoError(t, err)
		assert.Nil(t, inv.ReceiptNumber)
	}

	salesByClient[1] = []models.Sale{{ID: 1, ClientID: 1, Quantity: 2, UnitPrice: 500, Subtotal: 1000, TaxAmount: 100, TotalAmount: 1100}}
	salesByClient[2] = []models.Sale{{ID: 2, ClientID: 2, Quantity: 1, UnitPrice: 800, Subtotal: 800, TaxAmount: 80, TotalAmount: 880}}

	first, err := svc.UpsertWeeklyInvoice(context.Background(), 1, window, 1)
	require.NoError(t, err)
	second, err := svc.UpsertWeeklyInvoice(context.Background(), 2, window, 1)
	require.NoError(t, err)

	require.NotNil(t, first.ReceiptNumber)
	require.NotNil(t, second.ReceiptNumber)
	assert.NotEqual(t, *first.ReceiptNumber, *second.ReceiptNumber)
}

// A payment recorded between two recomputes must survive the second one:
// amount_paid comes from the recorded payments, never from the stale
// figure the recompute started with.
func TestUpsertWeeklyInvoice_RecountsPaymentsOnRecompute(t *testing.T) {
	window := WeekWindowFor(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), time.Saturday, time.Friday)

	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Client, error) {
			return &models.Client{ID: id, Name: "Khan Traders"}, nil
		},
	}
	saleRepo := &mockSaleRepo{
		mockFindInWindow: func(ctx context.Context, clientID uint, start, end time.Time) ([]models.Sale, error) {
			return []models.Sale{
				{ID: 1, ClientID: clientID, Quantity: 2, UnitPrice: 500, Subtotal: 1000, TaxAmount: 100, TotalAmount: 1100},
			}, nil
		},
		mockSumBalanceBefore: func(ctx context.Context, clientID uint, before time.Time) (float64, error) {
			return 0, nil
		},
	}
	invoiceRepo := &fakeInvoiceRepo{payments: map[uint]float64{}}
	svc := testBillingService(invoiceRepo, saleRepo, clientRepo)

	first, err := svc.UpsertWeeklyInvoice(context.Background(), 7, window, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.AmountPaid)

	// Payment lands after the first recompute.
	invoiceRepo.payments[first.ID] = first.FinalPayable

	second, err := svc.UpsertWeeklyInvoice(context.Background(), 7, window, 1)
	require.NoError(t, err)
	assert.Equal(t, first.FinalPayable, second.AmountPaid)
	assert.Equal(t, models.InvoiceStatusPaid, second.Status)
}
