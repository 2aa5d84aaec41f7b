package category

import (
	"time"
)

// Required transport temperatures.
const (
	TemperatureAmbient = "ambiante"
	TemperatureChilled = "refrigere"
	TemperatureFrozen  = "congele"
)

// Category classifies cargo with its handling characteristics. Categories are
// reference data: requests point at them by id and never embed them.
type Category struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;unique" json:"name"`
	Description string `gorm:"type:varchar(500)" json:"description,omitempty"`

	// Average cargo density in kg/m3
	AverageDensity *float64 `gorm:"" json:"average_density,omitempty"`

	Fragile   bool `gorm:"not null;default:false" json:"fragile"`
	Hazardous bool `gorm:"not null;default:false" json:"hazardous"`

	RequiredTemperature string `gorm:"type:varchar(50);default:ambiante" json:"required_temperature"`
	Restrictions        string `gorm:"type:varchar(500)" json:"restrictions,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
