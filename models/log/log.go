package log

import (
	"time"
)

// Log represents an API access log entry.
type Log struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Method     string    `gorm:"type:varchar(10);not null" json:"method"`
	Path       string    `gorm:"type:text;not null" json:"path"`
	CallerID   *uint     `gorm:"index" json:"caller_id,omitempty"`
	CallerRole string    `gorm:"type:varchar(50)" json:"caller_role,omitempty"`
	StatusCode int       `gorm:"type:int" json:"status_code"`
	LatencyMs  int64     `gorm:"type:bigint" json:"latency_ms"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the Log model
func (Log) TableName() string {
	return "api_logs"
}
