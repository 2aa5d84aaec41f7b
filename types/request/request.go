package request

import (
	"time"

	"transport-requests/errs"
)

// CreateRequest is the payload for creating a transport request.
type CreateRequest struct {
	Volume             float64   `json:"volume" validate:"required,gt=0"`
	Weight             *float64  `json:"weight" validate:"omitempty,gt=0"`
	CargoNature        string    `json:"cargo_nature" validate:"required,min=1,max=255"`
	CategoryID         *string   `json:"category_id" validate:"omitempty,max=36"`
	OriginCity         string    `json:"origin_city" validate:"required,min=1,max=255"`
	OriginAddress      string    `json:"origin_address" validate:"omitempty,max=500"`
	DestinationCity    string    `json:"destination_city" validate:"required,min=1,max=255"`
	DestinationAddress string    `json:"destination_address" validate:"omitempty,max=500"`
	DepartureAt        time.Time `json:"departure_at" validate:"required"`
}

// Validate collects every violated field instead of stopping at the first,
// so the client can fix the whole payload in one round trip.
func (r CreateRequest) Validate(nowFn func() time.Time) error {
	var violations []errs.FieldViolation

	if r.Volume <= 0 {
		violations = append(violations, errs.FieldViolation{
			Field: "volume", Message: "volume must be positive",
		})
	}
	if r.Weight != nil && *r.Weight <= 0 {
		violations = append(violations, errs.FieldViolation{
			Field: "weight", Message: "weight must be positive when provided",
		})
	}
	if isBlank(r.CargoNature) {
		violations = append(violations, errs.FieldViolation{
			Field: "cargo_nature", Message: "cargo nature is required",
		})
	}
	if isBlank(r.OriginCity) {
		violations = append(violations, errs.FieldViolation{
			Field: "origin_city", Message: "origin city is required",
		})
	}
	if isBlank(r.DestinationCity) {
		violations = append(violations, errs.FieldViolation{
			Field: "destination_city", Message: "destination city is required",
		})
	}
	if r.DepartureAt.IsZero() {
		violations = append(violations, errs.FieldViolation{
			Field: "departure_at", Message: "departure time is required",
		})
	} else if !r.DepartureAt.After(nowFn()) {
		violations = append(violations, errs.FieldViolation{
			Field: "departure_at", Message: "departure time must be in the future",
		})
	}

	if len(violations) > 0 {
		return errs.NewValidationError(violations)
	}
	return nil
}

// AssociationRequest patches the mission link and, optionally, the route
// enrichment of a request. Absent fields leave the stored values untouched.
type AssociationRequest struct {
	MissionID            *uint    `json:"mission_id" validate:"required"`
	RouteID              *string  `json:"route_id" validate:"omitempty,max=36"`
	DistanceKm           *float64 `json:"distance_km" validate:"omitempty,gt=0"`
	EstimatedDurationMin *int     `json:"estimated_duration_min" validate:"omitempty,gt=0"`
}

func (r AssociationRequest) Validate() error {
	var violations []errs.FieldViolation

	if r.MissionID == nil {
		violations = append(violations, errs.FieldViolation{
			Field: "mission_id", Message: "mission id is required",
		})
	}
	if r.DistanceKm != nil && *r.DistanceKm <= 0 {
		violations = append(violations, errs.FieldViolation{
			Field: "distance_km", Message: "distance must be positive when provided",
		})
	}
	if r.EstimatedDurationMin != nil && *r.EstimatedDurationMin <= 0 {
		violations = append(violations, errs.FieldViolation{
			Field: "estimated_duration_min", Message: "duration must be positive when provided",
		})
	}

	if len(violations) > 0 {
		return errs.NewValidationError(violations)
	}
	return nil
}

// PaymentStatusUpdateRequest is the payment service's webhook payload.
type PaymentStatusUpdateRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
}

func (r PaymentStatusUpdateRequest) Validate() error {
	if isBlank(r.NewStatus) {
		return errs.NewValidationError([]errs.FieldViolation{
			{Field: "new_status", Message: "new payment status is required"},
		})
	}
	return nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
