package services

import (
	"github.com/rajputgas/agency-api/internal/config"
	"github.com/rajputgas/agency-api/internal/jobs"
	"github.com/rajputgas/agency-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Client   *ClientService
	Custody  *CustodyService
	GatePass *GatePassService
	Billing  *BillingService
	Payment  *PaymentService
	Receipt  *ReceiptService
	Audit    *AuditService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)
	receiptSvc := NewReceiptService(repos.Receipt)

	return &Services{
		Client:   NewClientService(repos.Client, auditSvc),
		Custody:  NewCustodyService(repos.GatePass, repos.Return, repos.Product, auditSvc),
		GatePass: NewGatePassService(repos.GatePass, repos.Return, auditSvc),
		Billing:  NewBillingService(repos.Invoice, repos.Sale, repos.Client, cfg, auditSvc),
		Payment:  NewPaymentService(repos.Payment, repos.Invoice, repos.Client, receiptSvc, auditSvc, worker),
		Receipt:  receiptSvc,
		Audit:    auditSvc,
	}
}
