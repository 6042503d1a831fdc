package ports

import "context"

// Geocoder traduce coordenadas a un nombre de lugar legible.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}
