package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the pricing service. On any failure the orchestrator falls
// back to a locally computed quote, so errors here never block a request.
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

// CalculatePrice requests a quote for the given volume. The distance is only
// sent when the routing enrichment succeeded earlier.
func (c *Client) CalculatePrice(volume float64, distanceKm *float64) (*Quote, error) {
	body, err := json.Marshal(priceRequest{
		Volume:     volume,
		DistanceKm: distanceKm,
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
		return nil, fmt.Errorf("pricing service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing service returned status %d", resp.StatusCode)
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode pricing response: %w", err)
	}
	if quote.Montant <= 0 {
		return nil, fmt.Errorf("pricing response carries no usable amount")
	}

	return &quote, nil
}
