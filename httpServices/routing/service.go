package routing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the routing/geolocation service. A single attempt per call,
// bounded by the HTTP client's timeout; callers treat any error as "no route".
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// CalculateRoute asks the routing service for an itinerary between two cities.
func (c *Client) CalculateRoute(originCity, destinationCity string, clientID uint) (*RouteInfo, error) {
	body, err := json.Marshal(routeRequest{
		PointDepart:  originCity,
		PointArrivee: destinationCity,
		ClientID:     clientID,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/calculer", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("routing service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var route RouteInfo
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return nil, fmt.Errorf("failed to decode routing response: %w", err)
	}
	if route.ID == "" {
		return nil, fmt.Errorf("routing response missing route id")
	}

	return &route, nil
}
