package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/usecase"
)

// AssistHandler expone las ayudas opcionales de campo: redacción de notas y geocodificación.
// Ambas degradan al texto o coordenadas originales si el proveedor no responde.
type AssistHandler struct {
	uc *usecase.AssistUseCase
}

// NewAssistHandler construye el handler.
func NewAssistHandler(uc *usecase.AssistUseCase) *AssistHandler {
	return &AssistHandler{uc: uc}
}

// EnhanceNote godoc
// @Summary      Sugerir redacción de una nota de campo
// @Description  Si el servicio de IA no está configurado o falla, responde con el texto original y enhanced=false.
// @Tags         assist
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnhanceNoteRequest  true  "text"
// @Success      200   {object}  dto.EnhanceNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/assist/notes [post]
func (h *AssistHandler) EnhanceNote(c *fiber.Ctx) error {
	var req dto.EnhanceNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}
	out, err := h.uc.EnhanceNote(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Geocode godoc
// @Summary      Nombre del lugar para unas coordenadas
// @Tags         assist
// @Security     Bearer
// @Produce      json
// @Param        lat  query  number  true  "Latitud"
// @Param        lon  query  number  true  "Longitud"
// @Success      200  {object}  dto.GeocodeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assist/geocode [get]
func (h *AssistHandler) Geocode(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "lat y lon deben ser numéricos",
		})
	}
	out, err := h.uc.ReverseGeocode(c.UserContext(), lat, lon)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
