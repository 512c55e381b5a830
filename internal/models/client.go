package models

import (
	"time"
)

// Client represents a customer that borrows cylinders and accrues a bill.
// InitialPreviousBalance and the legacy opening gate passes are one-time
// seeds for clients imported from the paper ledger.
type Client struct {
	ID                     uint    `gorm:"primaryKey" json:"id"`
	Name                   string  `gorm:"not null" json:"name"`
	Phone                  string  `gorm:"not null;index" json:"phone"`
	Address                string  `json:"address"`
	Company                string  `json:"company"`
	InitialPreviousBalance float64 `gorm:"type:decimal(12,2);default:0" json:"initial_previous_balance"`

	// Rollups recomputed from the client's sales after every payment.
	TotalPurchases float64 `gorm:"type:decimal(12,2);default:0" json:"total_purchases"`
	TotalPaid      float64 `gorm:"type:decimal(12,2);default:0" json:"total_paid"`
	Balance        float64 `gorm:"type:decimal(12,2);default:0" json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// OpeningCylinderEntry is a one-time seed of cylinders already in the
// client's possession when onboarded. Materialized as a legacy gate pass.
type OpeningCylinderEntry struct {
	GasType  string `json:"gas_type"`
	SubType  string `json:"sub_type"`
	Capacity string `json:"capacity"`
	Quantity int    `json:"quantity"`
}

// ClientResponse is the JSON response format for clients
type ClientResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Company        string    `json:"company"`
	TotalPurchases float64   `json:"total_purchases"`
	TotalPaid      float64   `json:"total_paid"`
	Balance        float64   `json:"balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts Client to ClientResponse
func (c *Client) ToResponse() ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		Address:        c.Address,
		Company:        c.Company,
		TotalPurchases: c.TotalPurchases,
		TotalPaid:      c.TotalPaid,
		Balance:        c.Balance,
		CreatedAt:      c.CreatedAt,
	}
}
