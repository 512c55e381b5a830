package models

import "time"

// Return sources
const (
	ReturnSourceManual     = "manual"     // recorded interactively
	ReturnSourceAuto       = "auto"       // synthesized by the expiry sweeper
	ReturnSourceAdjustment = "adjustment" // privileged compensating entry
)

// CylinderReturn is one inbound return event. The ledger is append-only:
// rows are never updated or deleted, corrections go in as compensating
// adjustment entries. Capacity is always the raw catalog capacity, never a
// display bucket.
type CylinderReturn struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GatePassID *uint     `gorm:"index" json:"gate_pass_id,omitempty"`
	ClientID   uint      `gorm:"not null;index" json:"client_id"`
	GasType    string    `gorm:"not null" json:"gas_type"`
	Capacity   string    `gorm:"not null" json:"capacity"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Source     string    `gorm:"not null;default:manual" json:"source"`
	ReturnedAt time.Time `gorm:"not null" json:"returned_at"`
	RecordedBy *uint     `json:"recorded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for CylinderReturn
func (CylinderReturn) TableName() string {
	return "cylinder_returns"
}
