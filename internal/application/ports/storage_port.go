package ports

import "context"

// BlobStore guarda binarios (fotos, firmas, artes) bajo una clave opaca.
// Los errores de capacidad deben reportarse como *domain.StorageError con Quota=true.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Exists(ctx context.Context, key string) (bool, error)
}
