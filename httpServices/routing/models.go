package routing

// routeRequest is the routing service's calculation payload. Field names
// follow that service's contract.
type routeRequest struct {
	PointDepart  string `json:"pointDepart"`
	PointArrivee string `json:"pointArrivee"`
	ClientID     uint   `json:"clientId"`
}

// RouteInfo is the itinerary computed by the routing service.
type RouteInfo struct {
	ID                   string  `json:"id"`
	PointDepart          string  `json:"pointDepart"`
	PointArrivee         string  `json:"pointArrivee"`
	DistanceKm           float64 `json:"distance"`
	EstimatedDurationMin int     `json:"dureeEstimee"`
}
