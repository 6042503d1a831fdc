package evidence

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jhoicas/abs-rental-api/internal/application/order"
	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain"
)

var _ order.EvidenceStore = (*Service)(nil)

const (
	// MaxUploadBytes tope de un archivo de arte para impresión.
	MaxUploadBytes = 200 << 20
	// MaxPhotoSide lado mayor de una foto de evidencia tras redimensionar.
	MaxPhotoSide = 800
	jpegQuality  = 80
	refPrefix    = "blob:sha256:"
)

// AllowedExtensions extensiones aceptadas para artes de impresión.
var AllowedExtensions = map[string]bool{
	"pdf": true, "ai": true, "psd": true, "jpg": true, "jpeg": true,
	"png": true, "tiff": true, "cdr": true, "eps": true,
}

// Stored resultado de guardar un binario.
type Stored struct {
	Ref         string
	Size        int
	ContentType string
}

// Service valida y guarda archivos de arte y evidencias fotográficas por hash de contenido.
type Service struct {
	store ports.BlobStore
}

func NewService(store ports.BlobStore) *Service {
	return &Service{store: store}
}

// ValidateUpload revisa extensión y tamaño antes de leer el cuerpo completo.
func ValidateUpload(filename string, size int64) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !AllowedExtensions[ext] {
		return domain.NewValidationError("file", fmt.Sprintf("extensión no permitida %q", ext))
	}
	if size <= 0 {
		return domain.NewValidationError("file", "archivo vacío")
	}
	if size > MaxUploadBytes {
		return domain.NewValidationError("file", "el archivo supera 200MB")
	}
	return nil
}

// UploadArtwork guarda el arte tal cual y devuelve su referencia blob:.
func (s *Service) UploadArtwork(ctx context.Context, filename string, data []byte) (Stored, error) {
	if err := ValidateUpload(filename, int64(len(data))); err != nil {
		return Stored{}, err
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return s.put(ctx, data, ct)
}

// StoreEvidencePhoto decodifica la imagen, la reduce a MaxPhotoSide y la guarda como JPEG.
// Imágenes que ya caben se guardan sin recodificar.
func (s *Service) StoreEvidencePhoto(ctx context.Context, data []byte) (Stored, error) {
	out, ct, err := shrink(data)
	if err != nil {
		return Stored{}, err
	}
	return s.put(ctx, out, ct)
}

// Externalize sustituye una data URL por una referencia blob:. Otras referencias pasan intactas.
func (s *Service) Externalize(ctx context.Context, ref string) (string, error) {
	if !strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	ct, data, err := decodeDataURL(ref)
	if err != nil {
		return "", err
	}
	var st Stored
	if strings.HasPrefix(ct, "image/") {
		st, err = s.StoreEvidencePhoto(ctx, data)
	} else {
		st, err = s.put(ctx, data, ct)
	}
	if err != nil {
		return "", err
	}
	return st.Ref, nil
}

// Open devuelve el contenido de una referencia blob:.
func (s *Service) Open(ctx context.Context, ref string) ([]byte, string, error) {
	key, ok := strings.CutPrefix(ref, refPrefix)
	if !ok {
		key = ref
	}
	if len(key) != sha256.Size*2 {
		return nil, "", domain.NewValidationError("ref", "referencia inválida")
	}
	if _, err := hex.DecodeString(key); err != nil {
		return nil, "", domain.NewValidationError("ref", "referencia inválida")
	}
	return s.store.Get(ctx, key)
}

func (s *Service) put(ctx context.Context, data []byte, ct string) (Stored, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return Stored{}, err
	}
	if !exists {
		if err := s.store.Put(ctx, key, data, ct); err != nil {
			return Stored{}, err
		}
	}
	return Stored{Ref: refPrefix + key, Size: len(data), ContentType: ct}, nil
}

func shrink(data []byte) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &domain.ValidationError{Field: "photo", Reason: "imagen ilegible", Cause: err}
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxPhotoSide && h <= MaxPhotoSide && (format == "jpeg" || format == "png") {
		return data, "image/" + format, nil
	}
	if w > MaxPhotoSide || h > MaxPhotoSide {
		if w >= h {
			h = h * MaxPhotoSide / w
			w = MaxPhotoSide
		} else {
			w = w * MaxPhotoSide / h
			h = MaxPhotoSide
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("codificar jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// decodeDataURL interpreta data:[<tipo>][;base64],<datos>.
func decodeDataURL(ref string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return "", nil, domain.NewValidationError("data_url", "falta la coma separadora")
	}
	ct := "text/plain"
	isB64 := false
	for i, part := range strings.Split(meta, ";") {
		switch {
		case i == 0 && part != "":
			ct = strings.ToLower(part)
		case part == "base64":
			isB64 = true
		}
	}
	if !isB64 {
		text, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, &domain.ValidationError{Field: "data_url", Reason: "contenido inválido", Cause: err}
		}
		return ct, []byte(text), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return "", nil, &domain.ValidationError{Field: "data_url", Reason: "base64 inválido", Cause: err}
		}
	}
	return ct, data, nil
}
