package geocoding_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/internal/infrastructure/geocoding"
)

func TestReverseGeocode_DireccionCorta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "4.609700", r.URL.Query().Get("lat"))
		assert.Equal(t, "abs-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"display_name":"largo","address":{"road":"Calle 26","house_number":"59-41","suburb":"Salitre","city":"Bogotá"}}`))
	}))
	defer srv.Close()

	place, err := geocoding.NewNominatimGeocoder(srv.URL, "abs-test").ReverseGeocode(context.Background(), 4.6097, -74.0817)
	require.NoError(t, err)
	assert.Equal(t, "Calle 26 #59-41, Salitre, Bogotá", place)
}

func TestReverseGeocode_SinDireccionUsaDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"display_name":"Vereda El Rosal, Cundinamarca"}`))
	}))
	defer srv.Close()

	place, err := geocoding.NewNominatimGeocoder(srv.URL, "").ReverseGeocode(context.Background(), 4.8, -74.2)
	require.NoError(t, err)
	assert.Equal(t, "Vereda El Rosal, Cundinamarca", place)
}

func TestReverseGeocode_Errores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "0.000000" {
			_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	g := geocoding.NewNominatimGeocoder(srv.URL, "")

	_, err := g.ReverseGeocode(context.Background(), 0, 0)
	assert.ErrorContains(t, err, "Unable to geocode")
	_, err = g.ReverseGeocode(context.Background(), 1, 1)
	assert.ErrorContains(t, err, "503")
}
