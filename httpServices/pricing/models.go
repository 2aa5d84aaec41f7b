package pricing

type priceRequest struct {
	Volume     float64  `json:"volume"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// Quote is the pricing service's answer.
type Quote struct {
	Montant     float64 `json:"montant"`
	Description string  `json:"description"`
}
