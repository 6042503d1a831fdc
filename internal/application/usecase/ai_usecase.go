package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

// AssistUseCase agrupa las ayudas opcionales de campo: redacción de notas y geocodificación.
// Ninguna es imprescindible: si el proveedor falla se devuelve un resultado degradado.
type AssistUseCase struct {
	llm      ports.LLMService
	geocoder ports.Geocoder
	timeout  time.Duration
	log      *logger.Logger
}

// NewAssistUseCase construye el caso de uso. llm y geocoder pueden ser nil.
func NewAssistUseCase(llm ports.LLMService, geocoder ports.Geocoder, timeout time.Duration, log *logger.Logger) *AssistUseCase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AssistUseCase{llm: llm, geocoder: geocoder, timeout: timeout, log: log}
}

// EnhanceNote pide al LLM una versión más clara de la nota.
// Un fallo del proveedor no es error: se devuelve el texto original con Enhanced=false.
func (uc *AssistUseCase) EnhanceNote(ctx context.Context, req dto.EnhanceNoteRequest) (*dto.EnhanceNoteResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domain.NewValidationError("text", "requerido")
	}
	out := &dto.EnhanceNoteResponse{Original: text, Suggested: text}
	if uc.llm == nil {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	suggested, err := uc.llm.RewriteNote(ctx, text)
	if err != nil {
		uc.log.Warn().Err(err).Msg("sugerencia de nota no disponible")
		return out, nil
	}
	if suggested = strings.TrimSpace(suggested); suggested != "" {
		out.Suggested = suggested
		out.Enhanced = true
	}
	return out, nil
}

// ReverseGeocode nombra el lugar de unas coordenadas; sin respuesta usa "lat, lon".
func (uc *AssistUseCase) ReverseGeocode(ctx context.Context, lat, lon float64) (*dto.GeocodeResponse, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, domain.NewValidationError("coordinates", "latitud o longitud fuera de rango")
	}
	out := &dto.GeocodeResponse{Lat: lat, Lon: lon, Place: FormatCoordinates(lat, lon)}
	if uc.geocoder == nil {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	place, err := uc.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		uc.log.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("geocodificación inversa fallida")
		return out, nil
	}
	if place = strings.TrimSpace(place); place != "" {
		out.Place = place
		out.Resolved = true
	}
	return out, nil
}

// FormatCoordinates es la representación de respaldo de una ubicación.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}
