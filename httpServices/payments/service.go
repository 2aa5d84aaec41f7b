package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client initiates payments after a client validates a request. Fire-and-
// forget: the payment service reports the final status back through the
// payment webhook.
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

type initiateRequest struct {
	DemandeID uint    `json:"demandeId"`
	Montant   float64 `json:"montant"`
	ClientID  uint    `json:"clientId"`
}

// InitiatePayment asks the payment service to start collecting the quoted
// amount from the owning client.
func (c *Client) InitiatePayment(requestID uint, amount float64, clientID uint) error {
	body, err := json.Marshal(initiateRequest{
		DemandeID: requestID,
		Montant:   amount,
		ClientID:  clientID,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/initier", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}
	return nil
}
