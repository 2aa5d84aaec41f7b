package request

import (
	"time"

	"transport-requests/models/category"
)

// TransportRequest represents a client's shipment request together with the
// enrichment data collected from the routing and pricing services.
type TransportRequest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Owning client, taken from the authenticated caller at creation.
	// Never updated afterwards.
	ClientID uint `gorm:"not null;index" json:"client_id"`

	// Cargo attributes
	Volume      float64  `gorm:"not null" json:"volume"`
	Weight      *float64 `gorm:"" json:"weight,omitempty"`
	CargoNature string   `gorm:"type:varchar(255);not null" json:"cargo_nature"`

	// Optional category reference
	CategoryID *string            `gorm:"type:varchar(36);index" json:"category_id,omitempty"`
	Category   *category.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// Itinerary
	OriginCity         string    `gorm:"type:varchar(255);not null" json:"origin_city"`
	OriginAddress      string    `gorm:"type:varchar(500)" json:"origin_address,omitempty"`
	DestinationCity    string    `gorm:"type:varchar(255);not null" json:"destination_city"`
	DestinationAddress string    `gorm:"type:varchar(500)" json:"destination_address,omitempty"`
	DepartureAt        time.Time `gorm:"not null" json:"departure_at"`

	// Enrichment from the routing service, nil until a call succeeds
	RouteID              *string  `gorm:"type:varchar(36)" json:"route_id,omitempty"`
	DistanceKm           *float64 `gorm:"" json:"distance_km,omitempty"`
	EstimatedDurationMin *int     `gorm:"" json:"estimated_duration_min,omitempty"`

	// Estimated price. Always set after creation: either the pricing
	// service's quote or the local fallback.
	DevisEstime *float64 `gorm:"type:numeric(10,2)" json:"devis_estime,omitempty"`

	// Assignment from the matching/dispatch side
	MissionID *uint `gorm:"index" json:"mission_id,omitempty"`

	ValidationStatus ValidationStatus `gorm:"type:varchar(50);not null;default:AWAITING_CLIENT;index" json:"validation_status"`
	PaymentStatus    PaymentStatus    `gorm:"type:varchar(50);not null;default:EN_ATTENTE" json:"payment_status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the TransportRequest model
func (TransportRequest) TableName() string {
	return "transport_requests"
}
