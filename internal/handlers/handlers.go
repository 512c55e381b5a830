package handlers

import (
	"github.com/rajputgas/agency-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Client   *ClientHandler
	Custody  *CustodyHandler
	GatePass *GatePassHandler
	Billing  *BillingHandler
	Audit    *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Client:   NewClientHandler(svcs.Client),
		Custody:  NewCustodyHandler(svcs.Custody),
		GatePass: NewGatePassHandler(svcs.GatePass),
		Billing:  NewBillingHandler(svcs.Billing, svcs.Payment, svcs.Receipt),
		Audit:    NewAuditHandler(svcs.Audit),
	}
}
