package models

import "time"

// ActivityLog records who did what, mirroring the audit trail kept by the
// gate office for every mutating operation.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `json:"user_id,omitempty"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE_GATE_PASS, RECORD_RETURN, RECORD_PAYMENT, ...
	Entity    string    `gorm:"size:50;not null" json:"entity"`
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
