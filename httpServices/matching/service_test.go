package matching_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport-requests/httpServices/matching"
)

func TestNotifyRequestValidated_SendsDemandeID(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rechercher", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := matching.NewClient(server.URL, 2*time.Second)
	err := client.NotifyRequestValidated(42)

	require.NoError(t, err)
	assert.Equal(t, float64(42), captured["demandeId"])
}

func TestNotifyRequestValidated_WhenServiceErrors_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := matching.NewClient(server.URL, 2*time.Second)
	err := client.NotifyRequestValidated(42)

	require.Error(t, err)
}

func TestNotifyRequestValidated_WhenUnreachable_ReturnsError(t *testing.T) {
	client := matching.NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	err := client.NotifyRequestValidated(42)

	require.Error(t, err)
}
