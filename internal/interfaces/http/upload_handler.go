package http

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/evidence"
	"github.com/jhoicas/abs-rental-api/internal/domain"
)

// UploadHandler recibe artes de impresión y fotos de evidencia.
type UploadHandler struct {
	svc *evidence.Service
}

func NewUploadHandler(svc *evidence.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Artwork godoc
// @Summary      Subir arte de impresión
// @Description  Extensiones: pdf, ai, psd, jpg, jpeg, png, tiff, cdr, eps. Máximo 200MB.
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "archivo"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      507   {object}  dto.ErrorResponse
// @Router       /api/uploads/artwork [post]
func (h *UploadHandler) Artwork(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "campo file requerido")
	}
	if err := evidence.ValidateUpload(fh.Filename, fh.Size); err != nil {
		return respondError(c, err)
	}
	data, err := readFormFile(fh)
	if err != nil {
		return respondError(c, err)
	}
	st, err := h.svc.UploadArtwork(c.UserContext(), fh.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{URL: st.Ref, Size: int64(st.Size), ContentType: st.ContentType})
}

// Evidence godoc
// @Summary      Subir foto de evidencia
// @Description  La imagen se reduce a 800px por el lado mayor.
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "imagen"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      507   {object}  dto.ErrorResponse
// @Router       /api/uploads/evidence [post]
func (h *UploadHandler) Evidence(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "campo file requerido")
	}
	if fh.Size <= 0 || fh.Size > evidence.MaxUploadBytes {
		return respondError(c, domain.NewValidationError("file", "tamaño de archivo inválido"))
	}
	data, err := readFormFile(fh)
	if err != nil {
		return respondError(c, err)
	}
	st, err := h.svc.StoreEvidencePhoto(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{URL: st.Ref, Size: int64(st.Size), ContentType: st.ContentType})
}

// Download godoc
// @Summary      Descargar archivo almacenado
// @Tags         uploads
// @Security     Bearer
// @Param        ref  path  string  true  "hash sha256 (o blob:sha256:...)"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/uploads/{ref} [get]
func (h *UploadHandler) Download(c *fiber.Ctx) error {
	data, ct, err := h.svc.Open(c.UserContext(), strings.TrimSpace(c.Params("ref")))
	if err != nil {
		return respondError(c, err)
	}
	if ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	c.Set(fiber.HeaderCacheControl, "private, max-age=31536000, immutable")
	return c.Send(data)
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, domain.NewValidationError("file", "no se pudo leer el archivo")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, evidence.MaxUploadBytes+1))
	if err != nil {
		return nil, domain.NewValidationError("file", "no se pudo leer el archivo")
	}
	return data, nil
}
