package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rajputgas/agency-api/internal/middleware"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
	paymentService *services.PaymentService
	receiptService *services.ReceiptService
}

func NewBillingHandler(billingService *services.BillingService, paymentService *services.PaymentService, receiptService *services.ReceiptService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		paymentService: paymentService,
		receiptService: receiptService,
	}
}

// windowFromQuery resolves the billing week from ?date= (default today)
// and optional ?end_day= (e.g. "Thursday" for an early settlement).
func (h *BillingHandler) windowFromQuery(c *gin.Context) (services.WeekWindow, bool) {
	day := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return services.WeekWindow{}, false
		}
		day = parsed
	}

	if v := c.Query("end_day"); v != "" {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.EqualFold(d.String(), v) {
				return h.billingService.WindowEndingOn(day, d), true
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_day"})
		return services.WeekWindow{}, false
	}

	return h.billingService.DefaultWindow(day), true
}

// @Summary List Weekly Invoices
// @Description Get the weekly invoices already computed for the billing week containing a date
// @Tags Billing
// @Produce json
// @Param date query string false "Any date in the week (YYYY-MM-DD, default today)"
// @Param end_day query string false "Override week end day (e.g. Thursday)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /billing/weekly [get]
func (h *BillingHandler) IndexWeekly(c *gin.Context) {
	window, ok := h.windowFromQuery(c)
	if !ok {
		return
	}

	invoices, err := h.billingService.GetWeeklyInvoices(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.WeeklyInvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"week_start": window.Start.Format("2006-01-02"),
		"week_end":   window.End.Format("2006-01-02"),
		"invoices":   responses,
	})
}

type upsertWeeklyRequest struct {
	ClientID uint   `json:"client_id"`
	Date     string `json:"date"`
	EndDay   string `json:"end_day"`
}

// @Summary Upsert Weekly Invoices
// @Description Recompute the weekly invoice for one client, or for all clients when client_id is omitted
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body upsertWeeklyRequest true "Upsert payload"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /billing/weekly/upsert [post]
func (h *BillingHandler) UpsertWeekly(c *gin.Context) {
	var req upsertWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	window := h.billingService.DefaultWindow(day)
	if req.EndDay != "" {
		matched := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.EqualFold(d.String(), req.EndDay) {
				window = h.billingService.WindowEndingOn(day, d)
				matched = true
				break
			}
		}
		if !matched {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_day"})
			return
		}
	}

	actorID := middleware.GetUserID(c)

	if req.ClientID != 0 {
		inv, err := h.billingService.UpsertWeeklyInvoice(c.Request.Context(), req.ClientID, window, actorID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": inv.ToResponse()})
		return
	}

	invoices, err := h.billingService.UpsertAllWeeklyInvoices(c.Request.Context(), window, actorID)
	if err != nil && len(invoices) == 0 {
		respondError(c, err)
		return
	}

	responses := make([]models.WeeklyInvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}
	resp := gin.H{
		"week_start": window.Start.Format("2006-01-02"),
		"week_end":   window.End.Format("2006-01-02"),
		"invoices":   responses,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get Weekly Invoice
// @Description Get a single weekly invoice by ID
// @Tags Billing
// @Produce json
// @Param invoice_id path int true "Weekly Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /weekly_invoices/{invoice_id} [get]
func (h *BillingHandler) ShowInvoice(c *gin.Context) {
	invoiceID, ok := paramUint(c, "invoice_id")
	if !ok {
		return
	}

	inv, err := h.billingService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": inv.ToResponse()})
}

// @Summary List Invoice Payments
// @Description Get the payments recorded against a weekly invoice
// @Tags Billing
// @Produce json
// @Param invoice_id path int true "Weekly Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /weekly_invoices/{invoice_id}/payments [get]
func (h *BillingHandler) IndexPayments(c *gin.Context) {
	invoiceID, ok := paramUint(c, "invoice_id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListForInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// @Summary List Client Receipts
// @Description Get a client's receipts, newest first
// @Tags Billing
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients/{client_id}/receipts [get]
func (h *BillingHandler) IndexReceipts(c *gin.Context) {
	clientID, ok := paramUint(c, "client_id")
	if !ok {
		return
	}

	receipts, err := h.receiptService.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipts": receipts})
}

type recordPaymentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

// @Summary Record Weekly Payment
// @Description Apply a payment to a weekly invoice and allocate it across the client's outstanding sales
// @Tags Billing
// @Accept json
// @Produce json
// @Param invoice_id path int true "Weekly Invoice ID"
// @Param payment body recordPaymentRequest true "Payment payload"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /weekly_invoices/{invoice_id}/payments [post]
func (h *BillingHandler) CreatePayment(c *gin.Context) {
	invoiceID, ok := paramUint(c, "invoice_id")
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	result, err := h.paymentService.RecordWeeklyPayment(c.Request.Context(), invoiceID, req.Amount, date, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment":     result.Payment,
		"invoice":     result.Invoice.ToResponse(),
		"allocations": result.Allocations,
		"receipts":    result.Receipts,
	})
}
