package userprofile

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"transport-requests/errs"
)

// Client fetches user profiles from the user service. The caller's own
// credential is forwarded verbatim; this service has no credential of its own.
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

// FetchProfile loads the profile of the given user, authenticated as the
// original caller via the forwarded bearer token.
func (c *Client) FetchProfile(userID uint, bearerToken string) (*Profile, error) {
	url := fmt.Sprintf("%s/api/v1/users/%d", c.baseURL, userID)

	httpReq, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("user service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.NewNotFoundError("user profile", fmt.Sprintf("%d", userID))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user profile response: %w", err)
	}

	return &profile, nil
}
