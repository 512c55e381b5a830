package models

import (
	"time"
)

// Gate pass states. RETURNED is terminal; re-entering it is a no-op.
const (
	GatePassStatusOut      = "OUT"
	GatePassStatusReturned = "RETURNED"
)

// GatePass records an outbound delivery of cylinders to a client with an
// expected-return deadline. A nil ExpectedTimeIn marks a legacy opening
// balance pass which the sweeper never touches.
type GatePass struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	GatePassNumber string     `gorm:"uniqueIndex;not null" json:"gate_pass_number"`
	ReceiptID      *uint      `gorm:"index" json:"receipt_id,omitempty"`
	ClientID       uint       `gorm:"not null;index" json:"client_id"`
	DriverName     string     `json:"driver_name"`
	VehicleNumber  string     `json:"vehicle_number"`
	GasType        string     `gorm:"not null" json:"gas_type"`
	SubType        string     `json:"sub_type"`
	Capacity       string     `gorm:"not null" json:"capacity"`
	Quantity       int        `gorm:"not null" json:"quantity"`
	TimeOut        time.Time  `gorm:"not null" json:"time_out"`
	ExpectedTimeIn *time.Time `gorm:"index" json:"expected_time_in,omitempty"`
	TimeIn         *time.Time `json:"time_in,omitempty"`
	GateOperatorID uint       `gorm:"not null" json:"gate_operator_id"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName specifies the table name for GatePass
func (GatePass) TableName() string {
	return "gate_passes"
}

// Status derives the state from TimeIn.
func (g *GatePass) Status() string {
	if g.TimeIn != nil {
		return GatePassStatusReturned
	}
	return GatePassStatusOut
}

// IsReturned returns true once the pass reached its terminal state.
func (g *GatePass) IsReturned() bool {
	return g.TimeIn != nil
}

// IsDue returns true for an OUT pass whose expected return time has elapsed.
func (g *GatePass) IsDue(now time.Time) bool {
	return g.TimeIn == nil && g.ExpectedTimeIn != nil && g.ExpectedTimeIn.Before(now)
}

// GatePassResponse is the JSON response format for gate passes
type GatePassResponse struct {
	ID             uint       `json:"id"`
	GatePassNumber string     `json:"gate_pass_number"`
	ClientID       uint       `json:"client_id"`
	DriverName     string     `json:"driver_name"`
	VehicleNumber  string     `json:"vehicle_number"`
	GasType        string     `json:"gas_type"`
	SubType        string     `json:"sub_type,omitempty"`
	Capacity       string     `json:"capacity"`
	Quantity       int        `json:"quantity"`
	Status         string     `json:"status"`
	TimeOut        time.Time  `json:"time_out"`
	ExpectedTimeIn *time.Time `json:"expected_time_in,omitempty"`
	TimeIn         *time.Time `json:"time_in,omitempty"`
}

// ToResponse converts GatePass to GatePassResponse
func (g *GatePass) ToResponse() GatePassResponse {
	return GatePassResponse{
		ID:             g.ID,
		GatePassNumber: g.GatePassNumber,
		ClientID:       g.ClientID,
		DriverName:     g.DriverName,
		VehicleNumber:  g.VehicleNumber,
		GasType:        g.GasType,
		SubType:        g.SubType,
		Capacity:       g.Capacity,
		Quantity:       g.Quantity,
		Status:         g.Status(),
		TimeOut:        g.TimeOut,
		ExpectedTimeIn: g.ExpectedTimeIn,
		TimeIn:         g.TimeIn,
	}
}
