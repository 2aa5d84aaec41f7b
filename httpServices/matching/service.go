package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client notifies the matching/dispatch service that a request is ready for
// provider search. The orchestrator fires it in a goroutine and only logs the
// outcome.
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

type notifyRequest struct {
	DemandeID uint `json:"demandeId"`
}

// NotifyRequestValidated tells the matching service to start looking for a
// provider for the given request.
func (c *Client) NotifyRequestValidated(requestID uint) error {
	body, err := json.Marshal(notifyRequest{DemandeID: requestID})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/rechercher", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("matching service unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("matching service returned status %d", resp.StatusCode)
	}
	return nil
}
