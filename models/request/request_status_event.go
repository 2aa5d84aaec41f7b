package request

import (
	"time"
)

// RequestStatusEvent records one validation-status transition of a request.
// Rows are append-only; the current status lives on TransportRequest itself.
type RequestStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RequestID uint             `gorm:"not null;index" json:"request_id"`
	Request   TransportRequest `gorm:"foreignKey:RequestID" json:"request"`

	Status    ValidationStatus `gorm:"type:varchar(50);not null" json:"status"`
	CreatedBy string           `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the RequestStatusEvent model
func (RequestStatusEvent) TableName() string {
	return "request_status_events"
}
