package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListWatchesParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/watches", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"_id": "w1", "name": "Submariner", "brand": "Rolex", "type": "luxury", "price": 45000, "image": "sub.jpg"},
				{"_id": "w2", "name": "G-Shock", "brand": "Casio", "type": "casual", "price": 150, "imageUrl": "https://cdn.example.com/gshock.png"}
			]
		}`))
	}))
	defer server.Close()

	client := New(server.URL)
	watches, err := client.ListWatches(context.Background())
	require.NoError(t, err)
	require.Len(t, watches, 2)

	assert.Equal(t, "w1", watches[0].ID)
	assert.Equal(t, server.URL+"/uploads/sub.jpg", watches[0].ImageURL)
	// Une URL déjà absolue est conservée telle quelle
	assert.Equal(t, "https://cdn.example.com/gshock.png", watches[1].ImageURL)
}

func TestListWatchesLegacyField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "watches": [{"_id": "w1", "name": "Speedmaster", "price": 6500}]}`))
	}))
	defer server.Close()

	watches, err := New(server.URL).ListWatches(context.Background())
	require.NoError(t, err)
	require.Len(t, watches, 1)
	assert.Equal(t, "Speedmaster", watches[0].Name)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "message": "jwt expired"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).GetCart(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAPIErrorKeepsBusinessMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "message": "Stock insuffisant"}`))
	}))
	defer server.Close()

	err := New(server.URL).AddToCart(context.Background(), "tok", "w1", 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Stock insuffisant", apiErr.Message)
}

func TestAPIErrorFallsBackToErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "Cet email est déjà utilisé"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Register(context.Background(), "Jean", "jean@example.com", "secret123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Cet email est déjà utilisé", apiErr.Message)
}

func TestTransportFailureMapsToUpstreamDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // serveur injoignable

	err := New(server.URL).Ping(context.Background())
	assert.True(t, errors.Is(err, ErrUpstreamDown))
}

func TestBearerTokenForwarded(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer server.Close()

	_, err := New(server.URL).GetCart(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestResolveImageURL(t *testing.T) {
	client := New("http://api.local:5000/")

	assert.Equal(t, placeholderImage, client.ResolveImageURL(""))
	assert.Equal(t, "http://api.local:5000/uploads/a.png", client.ResolveImageURL("a.png"))
	assert.Equal(t, "http://api.local:5000/uploads/a.png", client.ResolveImageURL("/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", client.ResolveImageURL("https://cdn.example.com/a.png"))
}
