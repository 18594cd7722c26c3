// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GoogleMapsGeocoder {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewGoogleMapsGeocoder("test-key")
	g.baseURL = srv.URL

	return g
}

func TestGoogleMapsGeocoderOK(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris, France", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"geometry": {"location": {"lat": 48.8566, "lng": 2.3522}},
				"formatted_address": "Paris, France"
			}]
		}`))
	})

	result, err := g.Geocode("Paris", "France")
	require.NoError(t, err)

	assert.InDelta(t, 48.8566, result.Latitude, 1e-9)
	assert.InDelta(t, 2.3522, result.Longitude, 1e-9)
	assert.Equal(t, "google_maps", result.Provider)
	assert.Equal(t, "Paris, France", result.DisplayName)
}

func TestGoogleMapsGeocoderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-OK status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
			},
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status": "OK", "results": `))
			},
		},
		{
			name: "OK without results",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status": "OK", "results": []}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGeocoder(t, tc.handler)

			result, err := g.Geocode("Bally", "India")
			require.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestGoogleMapsGeocoderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())

	g := NewGoogleMapsGeocoder("test-key")
	g.baseURL = srv.URL

	srv.Close()

	result, err := g.Geocode("Paris", "France")
	require.Error(t, err)
	assert.Nil(t, result)
}
