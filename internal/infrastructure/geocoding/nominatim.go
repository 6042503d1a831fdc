package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
)

var _ ports.Geocoder = (*NominatimGeocoder)(nil)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder geocodificación inversa contra la API pública de OpenStreetMap.
// Nominatim exige un User-Agent identificable.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimGeocoder(baseURL, userAgent string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = "abs-rental-api"
	}
	return &NominatimGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		HouseNumber   string `json:"house_number"`
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		State         string `json:"state"`
	} `json:"address"`
	Error string `json:"error"`
}

// ReverseGeocode devuelve una dirección corta ("Calle 10 #5, Chapinero, Bogotá").
func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("zoom", "18")
	q.Set("accept-language", "es")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("geocoding: crear request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocoding: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("geocoding: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding: Nominatim HTTP %d", resp.StatusCode)
	}
	var out reverseResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("geocoding: deserializar respuesta: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("geocoding: %s", out.Error)
	}
	if place := shortAddress(out); place != "" {
		return place, nil
	}
	return out.DisplayName, nil
}

func shortAddress(r reverseResponse) string {
	a := r.Address
	var parts []string
	street := a.Road
	if street != "" && a.HouseNumber != "" {
		street += " #" + a.HouseNumber
	}
	for _, p := range []string{street, firstNonEmpty(a.Neighbourhood, a.Suburb), firstNonEmpty(a.City, a.Town, a.Village, a.State)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
